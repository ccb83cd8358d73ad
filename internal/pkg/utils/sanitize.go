package utils

import (
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes markup from user-submitted text. Announcements and chat
// messages are stored and served as plain text.
func StripHTML(content string) string {
	text := htmlTagPattern.ReplaceAllString(content, "")
	return strings.TrimSpace(text)
}

// Truncate shortens text to maxLength runes, appending an ellipsis when
// anything was cut off.
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}

package donation

import (
	"errors"
	"strings"
)

// ErrInvalidPhone rejects numbers that match none of the accepted shapes.
var ErrInvalidPhone = errors.New("donation: invalid phone number format")

// NormalizePhone maps a user-entered Kenyan phone number to canonical
// international form (254 followed by nine digits). Accepted shapes:
//
//	254712345678  -> as-is
//	0712345678    -> 254712345678
//	712345678     -> 254712345678
//	112345678     -> 254112345678
//
// Everything else is rejected. Pure function; spaces and punctuation are
// stripped before matching.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	phone := digits.String()

	switch {
	case strings.HasPrefix(phone, "254") && len(phone) == 12:
		return phone, nil
	case strings.HasPrefix(phone, "0") && len(phone) == 10:
		return "254" + phone[1:], nil
	case strings.HasPrefix(phone, "7") && len(phone) == 9:
		return "254" + phone, nil
	case strings.HasPrefix(phone, "1") && len(phone) == 9:
		return "254" + phone, nil
	}

	return "", ErrInvalidPhone
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text passes through", "School fees due Friday", "School fees due Friday"},
		{"tags are removed", "<p>Hello <strong>staff</strong></p>", "Hello staff"},
		{"surrounding whitespace is trimmed", "  <div>note</div>  ", "note"},
		{"script tags are removed", `<script>alert("x")</script>ok`, `alert("x")ok`},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StripHTML(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "hello...", Truncate("hello world", 5))
	// multi-byte runes are not split
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 5))
}

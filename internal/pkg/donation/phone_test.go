package donation

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "254712345678", want: "254712345678"},
		{in: "0712345678", want: "254712345678"},
		{in: "712345678", want: "254712345678"},
		{in: "112345678", want: "254112345678"},
		{in: "0112345678", want: "254112345678"},
		{in: "+254 712 345 678", want: "254712345678"},
		{in: "0712-345-678", want: "254712345678"},
	}

	for _, tt := range tests {
		got, err := NormalizePhone(tt.in)
		if err != nil {
			t.Fatalf("NormalizePhone(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if len(got) != 12 {
			t.Fatalf("NormalizePhone(%q) produced %d digits, want 12", tt.in, len(got))
		}
	}
}

func TestNormalizePhoneRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"abc",
		"12345",
		"25471234567",    // 254 prefix but 11 digits
		"2547123456789",  // 254 prefix but 13 digits
		"071234567",      // trunk prefix but 9 digits
		"07123456789",    // trunk prefix but 11 digits
		"812345678",      // invalid leading subscriber digit
		"254",
	} {
		if _, err := NormalizePhone(in); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("NormalizePhone(%q) = %v, want ErrInvalidPhone", in, err)
		}
	}
}

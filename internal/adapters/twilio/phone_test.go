package twilio

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"ten digits gets US country code", "5551234567", "+15551234567"},
		{"ten digits with punctuation", "(555) 123-4567", "+15551234567"},
		{"eleven digits leading one", "15551234567", "+15551234567"},
		{"already prefixed passthrough", "+15551234567", "+15551234567"},
		{"foreign number keeps digits", "+44 7911 123456", "+447911123456"},
		{"prefixed number sheds punctuation", "+44-7911-123456", "+447911123456"},
		{"bare digits get plus", "447911123456", "+447911123456"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizePhone(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{"5551234567", "15551234567", "+447911123456"}

	for _, in := range inputs {
		first, err := NormalizePhone(in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		second, err := NormalizePhone(first)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first != second {
			t.Errorf("normalization not idempotent for %q: %q then %q", in, first, second)
		}
	}
}

func TestNormalizePhoneInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "---"} {
		_, err := NormalizePhone(in)
		if err == nil {
			t.Errorf("NormalizePhone(%q) expected error, got none", in)
			continue
		}

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("NormalizePhone(%q) error type = %T, want *ValidationError", in, err)
		}
	}
}

func TestValidateMessageBody(t *testing.T) {
	c := &Client{maxLength: 160}

	got, err := c.ValidateMessageBody("  your delivery is on the way  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "your delivery is on the way" {
		t.Fatalf("body not trimmed: %q", got)
	}

	long := make([]byte, 161)
	for i := range long {
		long[i] = 'a'
	}

	if _, err := c.ValidateMessageBody(string(long)); err == nil {
		t.Fatal("expected error for 161-char body")
	}

	if _, err := c.ValidateMessageBody("   "); err == nil {
		t.Fatal("expected error for blank body")
	}
}

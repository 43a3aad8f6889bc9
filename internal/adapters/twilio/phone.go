package twilio

import "strings"

// ValidationError reports malformed recipient input (phone or body).
// It maps to a 400-class response and is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NormalizePhone converts a raw phone number to a dialable E.164-style
// form:
//
//	10 digits            -> "+1" + digits (US country code assumed)
//	11 digits leading 1  -> "+" + digits
//	anything else        -> "+" + remaining digits
//
// Formatting characters (spaces, dashes, parentheses, an existing "+")
// never survive normalization.
func NormalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ValidationError{Reason: "phone number is required"}
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if d == "" {
		return "", &ValidationError{Reason: "invalid phone number format"}
	}

	switch {
	case len(d) == 10:
		return "+1" + d, nil
	case len(d) == 11 && d[0] == '1':
		return "+" + d, nil
	default:
		return "+" + d, nil
	}
}

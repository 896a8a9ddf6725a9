package validation

import (
	"net/mail"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsValidEmail validates email format.
// Bare addresses on single-label hosts such as ops@localhost are accepted.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if validate.Var(email, "required,email") == nil {
		return true
	}
	// the email tag insists on a dotted domain
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsValidLatitude reports whether v is within [-90, 90]
func IsValidLatitude(v float64) bool {
	return validate.Var(v, "latitude") == nil
}

// IsValidLongitude reports whether v is within [-180, 180]
func IsValidLongitude(v float64) bool {
	return validate.Var(v, "longitude") == nil
}

// TrimAndValidate trims string and validates it's not empty
func TrimAndValidate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// ContainsLineBreak reports whether s would break out of a single mail header line.
func ContainsLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

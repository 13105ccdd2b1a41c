package validation

import (
	"net/mail"
)

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return NewError("email", "email address is too long (max 254 characters)")
	}

	if email == "" {
		return NewError("email", "email address is required")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return NewError("email", "invalid email address format")
	}

	return nil
}

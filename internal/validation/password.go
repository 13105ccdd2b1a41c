package validation

import (
	"strings"
)

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return NewError("password", "password must be at least 8 characters")
	}

	// bcrypt silently truncates passwords longer than 72 bytes
	if len(password) > 72 {
		return NewError("password", "password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	commonPatterns := []string{
		"password", "123456", "qwerty", "letmein", "welcome",
	}

	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return NewError("password", "password is too common, please choose a stronger one")
		}
	}

	return nil
}

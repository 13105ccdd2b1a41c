package validation

import "fmt"

// Error is a rejected input field. It is returned before any state changes.
type Error struct {
	Field   string
	Message string
}

func NewError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

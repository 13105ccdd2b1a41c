package repository

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrGoalNotFound   = errors.New("goal not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrConflict means the goal changed between read and write. The caller
	// may retry the whole operation.
	ErrConflict = errors.New("goal was modified concurrently")
)

// isUniqueViolation works for both SQLite and PostgreSQL error texts
func isUniqueViolation(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

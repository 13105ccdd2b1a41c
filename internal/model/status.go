package model

import "time"

// DueSoonDays is the horizon, in days, within which an open goal counts as due soon.
const DueSoonDays = 7

// Status is a presentational classification, recomputed on every read.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusOverdue    Status = "overdue"
	StatusDueSoon    Status = "due-soon"
	StatusNoDeadline Status = "no-deadline"
	StatusActive     Status = "active"
)

// Classify derives a goal's status. Precedence: completed, overdue, due-soon,
// no-deadline, active.
func Classify(current, target float64, deadline *string, now time.Time) Status {
	if Percentage(current, target) >= 100 {
		return StatusCompleted
	}

	days, ok := DaysRemaining(deadline, now)
	switch {
	case ok && days < 0:
		return StatusOverdue
	case ok && days <= DueSoonDays:
		return StatusDueSoon
	case !ok:
		return StatusNoDeadline
	default:
		return StatusActive
	}
}

// IsOpen reports whether the status is neither completed nor overdue.
func (s Status) IsOpen() bool {
	return s != StatusCompleted && s != StatusOverdue
}

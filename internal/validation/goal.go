package validation

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/templui/goalpace/internal/model"
)

const (
	maxGoalNameLength = 200
	maxUnitLength     = 50
	maxNoteLength     = 1000
)

// ValidateGoalName trims and checks a goal name.
func ValidateGoalName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", NewError("name", "name is required")
	}
	if utf8.RuneCountInString(trimmed) > maxGoalNameLength {
		return "", NewError("name", "name is too long (max 200 characters)")
	}
	return trimmed, nil
}

// ValidateUnit trims and checks the unit label.
func ValidateUnit(unit string) (string, error) {
	trimmed := strings.TrimSpace(unit)
	if trimmed == "" {
		return "", NewError("unit", "unit is required")
	}
	if utf8.RuneCountInString(trimmed) > maxUnitLength {
		return "", NewError("unit", "unit is too long (max 50 characters)")
	}
	return trimmed, nil
}

func ValidateTarget(target float64) error {
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		return NewError("target", "target must be greater than 0")
	}
	return nil
}

// ValidateBaseline checks the starting value of a goal. Negative values are rejected.
func ValidateBaseline(baseline float64) error {
	if math.IsNaN(baseline) || math.IsInf(baseline, 0) || baseline < 0 {
		return NewError("baseline", "baseline must be 0 or greater")
	}
	return nil
}

// ValidateColor returns the uppercased #RRGGBB token.
func ValidateColor(color string) (string, error) {
	normalized, ok := model.NormalizeHex(color)
	if !ok {
		return "", NewError("color", "color must match #RRGGBB")
	}
	return normalized, nil
}

// ValidateDeadline checks a YYYY-MM-DD deadline that must not be before
// now's local date. A nil or empty deadline is valid and normalizes to nil.
func ValidateDeadline(deadline *string, now time.Time) (*string, error) {
	if deadline == nil || strings.TrimSpace(*deadline) == "" {
		return nil, nil
	}

	d := strings.TrimSpace(*deadline)
	if _, err := model.ParseDate(d); err != nil {
		return nil, NewError("deadline", "deadline must be a date in YYYY-MM-DD format")
	}

	days, _ := model.DaysRemaining(&d, now)
	if days < 0 {
		return nil, NewError("deadline", "deadline cannot be in the past")
	}
	return &d, nil
}

func ValidateNote(note string) (string, error) {
	trimmed := strings.TrimSpace(note)
	if utf8.RuneCountInString(trimmed) > maxNoteLength {
		return "", NewError("note", "note is too long (max 1000 characters)")
	}
	return trimmed, nil
}

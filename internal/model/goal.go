package model

import (
	"math"
	"time"
)

// DateLayout is the calendar date format used for deadlines and activity days.
const DateLayout = "2006-01-02"

type Goal struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	Name        string     `db:"name" json:"name"`
	Unit        string     `db:"unit" json:"unit"`
	Target      float64    `db:"target" json:"target"`
	Baseline    float64    `db:"baseline" json:"baseline"`
	Current     float64    `db:"current" json:"current"`
	Deadline    *string    `db:"deadline" json:"deadline"` // YYYY-MM-DD, nil when open-ended
	Color       string     `db:"color" json:"color"`
	Version     int        `db:"version" json:"-"`
	CompletedAt *time.Time `db:"completed_at" json:"completed_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (g *Goal) Percentage() int {
	return Percentage(g.Current, g.Target)
}

func (g *Goal) DaysRemaining(now time.Time) (int, bool) {
	return DaysRemaining(g.Deadline, now)
}

func (g *Goal) Status(now time.Time) Status {
	return Classify(g.Current, g.Target, g.Deadline, now)
}

func (g *Goal) IsCompleted() bool {
	return g.CompletedAt != nil
}

// Percentage returns current/target as a whole percent clamped to [0, 100].
// A non-positive target yields 0.
func Percentage(current, target float64) int {
	if !(target > 0) {
		return 0
	}
	p := math.Round(current / target * 100)
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(p)
}

// DaysRemaining counts calendar days from now's local date to the deadline.
// 0 means due today, negative values are days overdue. The second result is
// false when there is no (parseable) deadline.
func DaysRemaining(deadline *string, now time.Time) (int, bool) {
	if deadline == nil || *deadline == "" {
		return 0, false
	}
	d, err := ParseDate(*deadline)
	if err != nil {
		return 0, false
	}
	return daysBetween(civilDate(now), d), true
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DayKey returns the local calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// civilDate drops the clock of t, keeping its local calendar date at UTC midnight
// so that day arithmetic is not affected by DST transitions.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(to.Sub(from).Hours() / 24))
}

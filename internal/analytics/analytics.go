// Package analytics derives per-user statistics from goals and their
// progress events. Every function is pure and degrades to zero values on
// empty input.
package analytics

import (
	"math"
	"time"

	"github.com/templui/goalpace/internal/model"
)

// RecentCompletionDays is the look-back used for Result.CompletedInLast30Days.
const RecentCompletionDays = 30

// Bounds for the activity window accepted from callers.
const (
	MinWindowDays = 1
	MaxWindowDays = 365
)

// ClampWindow forces days into [MinWindowDays, MaxWindowDays].
func ClampWindow(days int) int {
	return min(max(days, MinWindowDays), MaxWindowDays)
}

// WindowStart is midnight, in now's location, of the oldest day in a
// window of the given length ending today.
func WindowStart(days int, now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-(days-1), 0, 0, 0, 0, now.Location())
}

type ActivityPoint struct {
	Date   string `json:"date"`
	Active bool   `json:"active"`
}

type Streaks struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type FastestGoal struct {
	GoalID      string    `json:"goal_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Days        int       `json:"days"`
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt time.Time `json:"completed_at"`
}

type Result struct {
	WindowDays            int             `json:"window_days"`
	Total                 int             `json:"total"`
	Completed             int             `json:"completed"`
	Rate                  int             `json:"rate"`
	FastestGoal           *FastestGoal    `json:"fastest_goal"`
	Streaks               Streaks         `json:"streaks"`
	ActivitySeries        []ActivityPoint `json:"activity_series"`
	AvgDaysToComplete     int             `json:"avg_days_to_complete"`
	ActiveRate            int             `json:"active_rate"`
	CompletedInLast30Days int             `json:"completed_in_last_30_days"`
}

// Compute aggregates a user's goals and the progress events that fall in
// the window. Events outside the window are ignored, so callers may pass
// a bounded slice.
func Compute(goals []*model.Goal, events []*model.ProgressEvent, windowDays int, now time.Time) Result {
	if windowDays < 0 {
		windowDays = 0
	}

	series := ActivitySeries(events, windowDays, now)
	res := Result{
		WindowDays:     windowDays,
		Total:          len(goals),
		FastestGoal:    Fastest(goals),
		Streaks:        ComputeStreaks(series),
		ActivitySeries: series,
	}

	recentCutoff := now.AddDate(0, 0, -RecentCompletionDays)
	var open int
	var completedDays float64
	for _, g := range goals {
		if g.CompletedAt != nil {
			res.Completed++
			completedDays += daysToComplete(g)
			if !g.CompletedAt.Before(recentCutoff) && !g.CompletedAt.After(now) {
				res.CompletedInLast30Days++
			}
			continue
		}
		if g.Status(now).IsOpen() {
			open++
		}
	}

	res.Rate = percentOf(res.Completed, res.Total)
	res.ActiveRate = percentOf(open, res.Total)
	if res.Completed > 0 {
		res.AvgDaysToComplete = int(math.Round(completedDays / float64(res.Completed)))
	}

	return res
}

// ActivitySeries flags, for each of the last days calendar days ending with
// now's local date (oldest first), whether any event happened that day.
func ActivitySeries(events []*model.ProgressEvent, days int, now time.Time) []ActivityPoint {
	if days <= 0 {
		return []ActivityPoint{}
	}

	loc := now.Location()
	active := make(map[string]struct{}, len(events))
	for _, e := range events {
		active[model.DayKey(e.CreatedAt, loc)] = struct{}{}
	}

	y, m, d := now.Date()
	series := make([]ActivityPoint, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		// noon keeps the day stable across DST shifts
		day := time.Date(y, m, d-offset, 12, 0, 0, 0, loc).Format(model.DateLayout)
		_, ok := active[day]
		series = append(series, ActivityPoint{Date: day, Active: ok})
	}
	return series
}

// ComputeStreaks returns the run of active days ending with the last point
// and the longest run anywhere in the series.
func ComputeStreaks(series []ActivityPoint) Streaks {
	var s Streaks

	for i := len(series) - 1; i >= 0 && series[i].Active; i-- {
		s.Current++
	}

	run := 0
	for _, p := range series {
		if !p.Active {
			run = 0
			continue
		}
		run++
		s.Longest = max(s.Longest, run)
	}

	return s
}

// Fastest returns the completed goal with the shortest creation-to-completion
// span, ties going to the earliest created. Nil when none is completed.
func Fastest(goals []*model.Goal) *FastestGoal {
	var best *model.Goal
	var bestSpan time.Duration
	for _, g := range goals {
		if g.CompletedAt == nil {
			continue
		}
		span := g.CompletedAt.Sub(g.CreatedAt)
		if best == nil || span < bestSpan || (span == bestSpan && g.CreatedAt.Before(best.CreatedAt)) {
			best, bestSpan = g, span
		}
	}

	if best == nil {
		return nil
	}
	return &FastestGoal{
		GoalID:      best.ID,
		Name:        best.Name,
		Color:       best.Color,
		Days:        int(math.Round(daysToComplete(best))),
		CreatedAt:   best.CreatedAt,
		CompletedAt: *best.CompletedAt,
	}
}

func daysToComplete(g *model.Goal) float64 {
	return g.CompletedAt.Sub(g.CreatedAt).Hours() / 24
}

func percentOf(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

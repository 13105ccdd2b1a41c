// Package ledger applies progress events to goals and replays a goal's
// history into per-event summaries.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalpace/internal/model"
)

var (
	ErrInvalidDelta     = errors.New("delta must be a non-zero number")
	ErrNegativeProgress = fmt.Errorf("%w: progress cannot drop below zero", ErrInvalidDelta)
	ErrReplayMismatch   = errors.New("history does not reproduce current value")
)

// Entry is a requested adjustment: either a delta or a complete marker.
type Entry struct {
	Delta    float64
	Complete bool
	Note     string
}

func Delta(delta float64, note string) Entry {
	return Entry{Delta: delta, Note: note}
}

func CompleteMarker(note string) Entry {
	return Entry{Complete: true, Note: note}
}

// Append applies entry to goal in place and returns the event to persist.
//
// A complete marker is recorded as the delta that brings current to target.
// When the goal already sits at target the returned event is nil, but the
// goal may still be stamped completed. CompletedAt is set the first time the
// goal reaches 100% and is never cleared. The event's Seq is the goal version
// the caller is expected to persist alongside it.
func Append(goal *model.Goal, entry Entry, now time.Time) (*model.ProgressEvent, error) {
	delta := entry.Delta
	if entry.Complete {
		delta = goal.Target - goal.Current
	} else if delta == 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return nil, ErrInvalidDelta
	}

	next := goal.Current + delta
	if next < 0 {
		return nil, ErrNegativeProgress
	}

	var event *model.ProgressEvent
	if delta != 0 {
		event = &model.ProgressEvent{
			ID:             uuid.New().String(),
			GoalID:         goal.ID,
			Seq:            goal.Version + 1,
			Delta:          delta,
			Complete:       entry.Complete,
			ResultingValue: next,
			Note:           entry.Note,
			CreatedAt:      now,
		}
		goal.Current = next
		goal.UpdatedAt = now
	}

	StampCompletion(goal, now)

	return event, nil
}

// StampCompletion sets CompletedAt when the goal has reached 100% and was
// never completed before. It reports whether the stamp was applied.
func StampCompletion(goal *model.Goal, now time.Time) bool {
	if goal.CompletedAt != nil || model.Percentage(goal.Current, goal.Target) < 100 {
		return false
	}
	completedAt := now
	goal.CompletedAt = &completedAt
	goal.UpdatedAt = now
	return true
}

type Row struct {
	Date           string    `json:"date"`
	Timestamp      time.Time `json:"timestamp"`
	Delta          float64   `json:"delta"`
	ResultingValue float64   `json:"resulting_value"`
	Percentage     int       `json:"percentage"`
	Note           string    `json:"note,omitempty"`
	Complete       bool      `json:"complete"`
}

type Summary struct {
	InitialValue float64 `json:"initial_value"`
	Rows         []Row   `json:"rows"`
}

// Summarize renders a goal's history in chronological order. Dates are
// calendar days in loc.
func Summarize(goal *model.Goal, events []*model.ProgressEvent, loc *time.Location) Summary {
	ordered := chronological(events)

	rows := make([]Row, 0, len(ordered))
	for _, e := range ordered {
		rows = append(rows, Row{
			Date:           model.DayKey(e.CreatedAt, loc),
			Timestamp:      e.CreatedAt,
			Delta:          e.Delta,
			ResultingValue: e.ResultingValue,
			Percentage:     model.Percentage(e.ResultingValue, goal.Target),
			Note:           e.Note,
			Complete:       e.Complete,
		})
	}

	return Summary{InitialValue: goal.Baseline, Rows: rows}
}

// Replay applies every delta in chronological order starting from baseline.
func Replay(baseline float64, events []*model.ProgressEvent) float64 {
	value := baseline
	for _, e := range chronological(events) {
		value += e.Delta
	}
	return value
}

// Verify checks that the goal's history reproduces its current value.
func Verify(goal *model.Goal, events []*model.ProgressEvent) error {
	if got := Replay(goal.Baseline, events); got != goal.Current {
		return fmt.Errorf("%w: goal %s replays to %v, current is %v", ErrReplayMismatch, goal.ID, got, goal.Current)
	}
	return nil
}

func chronological(events []*model.ProgressEvent) []*model.ProgressEvent {
	ordered := slices.Clone(events)
	slices.SortStableFunc(ordered, func(a, b *model.ProgressEvent) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return a.Seq - b.Seq
	})
	return ordered
}

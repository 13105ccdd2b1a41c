package model

import (
	"time"
)

// ProgressEvent is one append-only adjustment of a goal's current value.
type ProgressEvent struct {
	ID             string    `db:"id" json:"id"`
	GoalID         string    `db:"goal_id" json:"goal_id"`
	Seq            int       `db:"seq" json:"seq"` // per-goal order for events sharing a timestamp
	Delta          float64   `db:"delta" json:"delta"`
	Complete       bool      `db:"complete" json:"complete"`
	ResultingValue float64   `db:"resulting_value" json:"resulting_value"`
	Note           string    `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

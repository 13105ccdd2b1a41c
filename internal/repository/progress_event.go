package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalpace/internal/model"
)

const eventColumns = `id, goal_id, seq, delta, complete, resulting_value, note, created_at`

type ProgressEventRepository interface {
	Append(event *model.ProgressEvent) error
	History(goalID string) ([]*model.ProgressEvent, error)
	UserEventsSince(userID string, since time.Time) ([]*model.ProgressEvent, error)
}

type progressEventRepository struct {
	db *sqlx.DB
}

func NewProgressEventRepository(db *sqlx.DB) ProgressEventRepository {
	return &progressEventRepository{db: db}
}

// Append inserts a single event without touching its goal. Use
// GoalRepository.ApplyProgress to move a goal and record its event together.
func (r *progressEventRepository) Append(event *model.ProgressEvent) error {
	return insertEvent(r.db, event)
}

// History returns a goal's events, oldest first.
func (r *progressEventRepository) History(goalID string) ([]*model.ProgressEvent, error) {
	events := []*model.ProgressEvent{}
	query := `SELECT ` + eventColumns + ` FROM progress_events WHERE goal_id = $1 ORDER BY created_at ASC, seq ASC`

	err := r.db.Select(&events, query, goalID)
	if err != nil {
		return nil, err
	}

	return events, nil
}

// UserEventsSince returns events on any of the user's goals created at or after since.
func (r *progressEventRepository) UserEventsSince(userID string, since time.Time) ([]*model.ProgressEvent, error) {
	events := []*model.ProgressEvent{}
	query := `SELECT e.id, e.goal_id, e.seq, e.delta, e.complete, e.resulting_value, e.note, e.created_at
	          FROM progress_events e
	          JOIN goals g ON g.id = e.goal_id
	          WHERE g.user_id = $1 AND e.created_at >= $2
	          ORDER BY e.created_at ASC, e.seq ASC`

	err := r.db.Select(&events, query, userID, utc(since))
	if err != nil {
		return nil, err
	}

	return events, nil
}

func insertEvent(e sqlx.Execer, event *model.ProgressEvent) error {
	query := `INSERT INTO progress_events (` + eventColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := e.Exec(query,
		event.ID,
		event.GoalID,
		event.Seq,
		event.Delta,
		event.Complete,
		event.ResultingValue,
		event.Note,
		utc(event.CreatedAt),
	)
	return err
}

package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalpace/internal/model"
)

const goalColumns = `id, user_id, name, unit, target, baseline, current, deadline, color, version, completed_at, created_at, updated_at`

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	Goals(userID string) ([]*model.Goal, error)
	Update(goal *model.Goal) error
	ApplyProgress(goal *model.Goal, event *model.ProgressEvent) error
	Delete(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (` + goalColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	if goal.Version == 0 {
		goal.Version = 1
	}

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.Unit,
		goal.Target,
		goal.Baseline,
		goal.Current,
		goal.Deadline,
		goal.Color,
		goal.Version,
		utcPtr(goal.CompletedAt),
		utc(goal.CreatedAt),
		utc(goal.UpdatedAt),
	)

	return err
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Goals returns every goal of the user in creation order.
func (r *goalRepository) Goals(userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// Update writes the goal's descriptive fields. It fails with ErrConflict
// when the stored version no longer matches goal.Version.
func (r *goalRepository) Update(goal *model.Goal) error {
	query := `UPDATE goals
	          SET name = $1, unit = $2, target = $3, deadline = $4, color = $5, completed_at = $6,
	              updated_at = $7, version = version + 1
	          WHERE id = $8 AND user_id = $9 AND version = $10`

	result, err := r.db.Exec(query,
		goal.Name,
		goal.Unit,
		goal.Target,
		goal.Deadline,
		goal.Color,
		utcPtr(goal.CompletedAt),
		utc(goal.UpdatedAt),
		goal.ID,
		goal.UserID,
		goal.Version,
	)
	if err != nil {
		return err
	}

	err = r.checkVersioned(r.db, result, goal)
	if err != nil {
		return err
	}

	goal.Version++
	return nil
}

// ApplyProgress stores the goal's new value and its event atomically.
// event may be nil when only the completion stamp changed.
func (r *goalRepository) ApplyProgress(goal *model.Goal, event *model.ProgressEvent) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE goals
	          SET current = $1, completed_at = $2, updated_at = $3, version = version + 1
	          WHERE id = $4 AND user_id = $5 AND version = $6`

	result, err := tx.Exec(query,
		goal.Current,
		utcPtr(goal.CompletedAt),
		utc(goal.UpdatedAt),
		goal.ID,
		goal.UserID,
		goal.Version,
	)
	if err != nil {
		return err
	}

	err = r.checkVersioned(tx, result, goal)
	if err != nil {
		return err
	}

	if event != nil {
		err = insertEvent(tx, event)
		if err != nil {
			return fmt.Errorf("failed to insert progress event: %w", err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	goal.Version++
	return nil
}

// Delete removes the goal together with its whole history.
func (r *goalRepository) Delete(userID, goalID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM progress_events
	                  WHERE goal_id IN (SELECT id FROM goals WHERE id = $1 AND user_id = $2)`, goalID, userID)
	if err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return tx.Commit()
}

// checkVersioned tells a stale version apart from a missing goal when an
// update touched no rows.
func (r *goalRepository) checkVersioned(q sqlx.Queryer, result sql.Result, goal *model.Goal) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	var exists int
	err = sqlx.Get(q, &exists, `SELECT COUNT(*) FROM goals WHERE id = $1 AND user_id = $2`, goal.ID, goal.UserID)
	if err != nil {
		return err
	}
	if exists == 0 {
		return ErrGoalNotFound
	}
	return ErrConflict
}

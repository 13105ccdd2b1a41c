package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/templui/goalpace/internal/ledger"
	"github.com/templui/goalpace/internal/metrics"
	"github.com/templui/goalpace/internal/model"
	"github.com/templui/goalpace/internal/query"
	"github.com/templui/goalpace/internal/repository"
	"github.com/templui/goalpace/internal/storage"
	"github.com/templui/goalpace/internal/validation"
	"golang.org/x/text/language"
)

// Notifier tells a user that one of their goals was completed.
type Notifier interface {
	SendGoalCompletedEmail(ctx context.Context, email, name string, goal *model.Goal) error
}

type CreateGoalInput struct {
	Name     string
	Unit     string
	Target   float64
	Baseline float64
	Deadline *string
	Color    string
}

// UpdateGoalInput changes only the non-nil fields. Current is never writable.
type UpdateGoalInput struct {
	Name          *string
	Unit          *string
	Target        *float64
	Color         *string
	Deadline      *string
	ClearDeadline bool
}

type GoalService struct {
	goals    repository.GoalRepository
	events   repository.ProgressEventRepository
	users    repository.UserRepository
	notifier Notifier
	archive  storage.Archive
	locker   *ledger.Locker
	locale   language.Tag
	now      func() time.Time
}

// NewGoalService wires the goal operations. notifier and archive may be nil.
func NewGoalService(
	goals repository.GoalRepository,
	events repository.ProgressEventRepository,
	users repository.UserRepository,
	notifier Notifier,
	archive storage.Archive,
	locale language.Tag,
) *GoalService {
	return &GoalService{
		goals:    goals,
		events:   events,
		users:    users,
		notifier: notifier,
		archive:  archive,
		locker:   ledger.NewLocker(),
		locale:   locale,
		now:      time.Now,
	}
}

func (s *GoalService) Locale() language.Tag {
	return s.locale
}

// List returns the user's goals after filtering and sorting.
func (s *GoalService) List(userID string, filter query.Filter) ([]*model.Goal, error) {
	goals, err := s.goals.Goals(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}
	return query.Apply(goals, filter, s.now()), nil
}

func (s *GoalService) ByID(userID, goalID string) (*model.Goal, error) {
	return s.goals.ByID(userID, goalID)
}

// Create validates every field before anything is stored. The goal starts
// at its baseline.
func (s *GoalService) Create(ctx context.Context, userID string, in CreateGoalInput) (*model.Goal, error) {
	now := s.now()

	name, err := validation.ValidateGoalName(in.Name)
	if err != nil {
		return nil, err
	}
	unit, err := validation.ValidateUnit(in.Unit)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateTarget(in.Target)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateBaseline(in.Baseline)
	if err != nil {
		return nil, err
	}
	color, err := validation.ValidateColor(in.Color)
	if err != nil {
		return nil, err
	}
	deadline, err := validation.ValidateDeadline(in.Deadline, now)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Unit:      unit,
		Target:    in.Target,
		Baseline:  in.Baseline,
		Current:   in.Baseline,
		Deadline:  deadline,
		Color:     color,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	completed := ledger.StampCompletion(goal, now)

	err = s.goals.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	metrics.GoalsCreatedTotal.Inc()
	slog.Info("goal created", "goal_id", goal.ID, "user_id", userID)

	if completed {
		s.completed(ctx, goal)
	}

	return goal, nil
}

// Update applies descriptive changes. Lowering the target onto the current
// value completes the goal like a progress update would.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, in UpdateGoalInput) (*model.Goal, error) {
	unlock := s.locker.Lock(goalID)
	defer unlock()

	goal, err := s.goals.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	next := *goal

	if in.Name != nil {
		next.Name, err = validation.ValidateGoalName(*in.Name)
		if err != nil {
			return nil, err
		}
	}
	if in.Unit != nil {
		next.Unit, err = validation.ValidateUnit(*in.Unit)
		if err != nil {
			return nil, err
		}
	}
	if in.Target != nil {
		err = validation.ValidateTarget(*in.Target)
		if err != nil {
			return nil, err
		}
		next.Target = *in.Target
	}
	if in.Color != nil {
		next.Color, err = validation.ValidateColor(*in.Color)
		if err != nil {
			return nil, err
		}
	}
	if in.ClearDeadline {
		next.Deadline = nil
	} else if in.Deadline != nil {
		next.Deadline, err = validation.ValidateDeadline(in.Deadline, now)
		if err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = now
	completed := ledger.StampCompletion(&next, now)

	err = s.goals.Update(&next)
	if err != nil {
		return nil, err
	}

	if completed {
		s.completed(ctx, &next)
	}

	return &next, nil
}

// RecordProgress appends a delta to the goal's history.
func (s *GoalService) RecordProgress(ctx context.Context, userID, goalID string, delta float64, note string) (*model.Goal, error) {
	return s.apply(ctx, userID, goalID, ledger.Delta(delta, note))
}

// Complete moves the goal straight to its target.
func (s *GoalService) Complete(ctx context.Context, userID, goalID, note string) (*model.Goal, error) {
	return s.apply(ctx, userID, goalID, ledger.CompleteMarker(note))
}

func (s *GoalService) apply(ctx context.Context, userID, goalID string, entry ledger.Entry) (*model.Goal, error) {
	note, err := validation.ValidateNote(entry.Note)
	if err != nil {
		return nil, err
	}
	entry.Note = note

	unlock := s.locker.Lock(goalID)
	defer unlock()

	goal, err := s.goals.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	wasCompleted := goal.IsCompleted()

	event, err := ledger.Append(goal, entry, s.now())
	if err != nil {
		reason := "invalid_delta"
		if errors.Is(err, ledger.ErrNegativeProgress) {
			reason = "negative"
		}
		metrics.RecordRejected(reason)
		return nil, err
	}

	if event == nil && goal.IsCompleted() == wasCompleted {
		return goal, nil
	}

	err = s.goals.ApplyProgress(goal, event)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			metrics.RecordRejected("conflict")
		}
		return nil, err
	}

	if event != nil {
		metrics.RecordProgress(event.Complete)
		slog.Debug("progress recorded",
			"goal_id", goal.ID,
			"delta", event.Delta,
			"resulting_value", event.ResultingValue,
		)
	}

	if !wasCompleted && goal.IsCompleted() {
		s.completed(ctx, goal)
	}

	return goal, nil
}

// completed reports a first completion. Notification failures are logged only.
func (s *GoalService) completed(ctx context.Context, goal *model.Goal) {
	metrics.GoalsCompletedTotal.Inc()
	slog.Info("goal completed", "goal_id", goal.ID, "user_id", goal.UserID)

	if s.notifier == nil {
		return
	}

	user, err := s.users.ByID(goal.UserID)
	if err != nil {
		slog.Error("failed to load goal owner for notification", "error", err, "goal_id", goal.ID)
		return
	}

	err = s.notifier.SendGoalCompletedEmail(ctx, user.Email, user.Name, goal)
	if err != nil {
		slog.Error("failed to send goal completed email", "error", err, "goal_id", goal.ID)
	}
}

// History summarizes the goal's events with dates in the service clock's location.
func (s *GoalService) History(userID, goalID string) (ledger.Summary, error) {
	goal, err := s.goals.ByID(userID, goalID)
	if err != nil {
		return ledger.Summary{}, err
	}

	events, err := s.events.History(goal.ID)
	if err != nil {
		return ledger.Summary{}, fmt.Errorf("failed to load history: %w", err)
	}

	return ledger.Summarize(goal, events, s.now().Location()), nil
}

// Verify replays every goal of the user and reports the first mismatch.
func (s *GoalService) Verify(userID string) error {
	goals, err := s.goals.Goals(userID)
	if err != nil {
		return fmt.Errorf("failed to load goals: %w", err)
	}

	for _, goal := range goals {
		events, err := s.events.History(goal.ID)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		err = ledger.Verify(goal, events)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *GoalService) Delete(userID, goalID string) error {
	unlock := s.locker.Lock(goalID)
	defer unlock()

	err := s.goals.Delete(userID, goalID)
	if err != nil {
		return err
	}

	slog.Info("goal deleted", "goal_id", goalID, "user_id", userID)
	return nil
}

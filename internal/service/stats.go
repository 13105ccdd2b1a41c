package service

import (
	"context"
	"fmt"
	"time"

	"github.com/templui/goalpace/internal/analytics"
	"github.com/templui/goalpace/internal/metrics"
	"github.com/templui/goalpace/internal/model"
	"github.com/templui/goalpace/internal/repository"
	"golang.org/x/sync/errgroup"
)

type StatsService struct {
	goals         repository.GoalRepository
	events        repository.ProgressEventRepository
	defaultWindow int
	now           func() time.Time
}

func NewStatsService(goals repository.GoalRepository, events repository.ProgressEventRepository, defaultWindow int) *StatsService {
	return &StatsService{
		goals:         goals,
		events:        events,
		defaultWindow: analytics.ClampWindow(defaultWindow),
		now:           time.Now,
	}
}

// UserStats builds the analytics for the last windowDays days. Zero picks
// the default window; other values are clamped to the accepted range.
func (s *StatsService) UserStats(ctx context.Context, userID string, windowDays int) (analytics.Result, error) {
	start := time.Now()
	defer func() {
		metrics.StatsComputeDuration.Observe(time.Since(start).Seconds())
	}()

	err := ctx.Err()
	if err != nil {
		return analytics.Result{}, err
	}

	if windowDays == 0 {
		windowDays = s.defaultWindow
	}
	windowDays = analytics.ClampWindow(windowDays)
	now := s.now()

	var goals []*model.Goal
	var events []*model.ProgressEvent

	var g errgroup.Group
	g.Go(func() error {
		var err error
		goals, err = s.goals.Goals(userID)
		if err != nil {
			return fmt.Errorf("failed to load goals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.events.UserEventsSince(userID, analytics.WindowStart(windowDays, now))
		if err != nil {
			return fmt.Errorf("failed to load progress events: %w", err)
		}
		return nil
	})

	err = g.Wait()
	if err != nil {
		return analytics.Result{}, err
	}

	return analytics.Compute(goals, events, windowDays, now), nil
}

// Overview returns the page totals shown above the goal list.
func (s *StatsService) Overview(userID string) (analytics.Overview, error) {
	goals, err := s.goals.Goals(userID)
	if err != nil {
		return analytics.Overview{}, fmt.Errorf("failed to load goals: %w", err)
	}
	return analytics.ComputeOverview(goals, s.now()), nil
}

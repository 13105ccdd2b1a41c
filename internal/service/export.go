package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/goalpace/internal/ledger"
	"github.com/templui/goalpace/internal/model"
)

// ErrArchiveDisabled is returned by Archive when no storage is configured.
var ErrArchiveDisabled = errors.New("export archive is not configured")

type ExportedGoal struct {
	*model.Goal
	Percentage int            `json:"percentage"`
	Status     model.Status   `json:"status"`
	History    ledger.Summary `json:"history"`
}

type Export struct {
	UserID     string         `json:"user_id"`
	ExportedAt time.Time      `json:"exported_at"`
	Goals      []ExportedGoal `json:"goals"`
}

type ArchiveResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Export collects every goal of the user with its full history.
func (s *GoalService) Export(userID string) (*Export, error) {
	now := s.now()

	goals, err := s.goals.Goals(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	out := &Export{UserID: userID, ExportedAt: now, Goals: make([]ExportedGoal, 0, len(goals))}
	for _, goal := range goals {
		events, err := s.events.History(goal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
		out.Goals = append(out.Goals, ExportedGoal{
			Goal:       goal,
			Percentage: goal.Percentage(),
			Status:     goal.Status(now),
			History:    ledger.Summarize(goal, events, now.Location()),
		})
	}

	return out, nil
}

// Archive stores the export under exports/{user}/{timestamp}.json and
// returns a temporary download link.
func (s *GoalService) Archive(ctx context.Context, userID string) (*ArchiveResult, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	export, err := s.Export(userID)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := ArchiveKey(userID, export.ExportedAt)
	err = s.archive.Put(ctx, key, bytes.NewReader(data), "application/json")
	if err != nil {
		return nil, err
	}

	url, err := s.archive.PresignedURL(ctx, key)
	if err != nil {
		return nil, err
	}

	slog.Info("goals archived", "user_id", userID, "key", key, "goals", len(export.Goals))
	return &ArchiveResult{Key: key, URL: url}, nil
}

func ArchiveKey(userID string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s.json", userID, at.UTC().Format("20060102T150405Z"))
}

package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalpace/internal/db"
	"github.com/templui/goalpace/internal/model"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func seedUser(t *testing.T, users UserRepository, email string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.NewString(), Email: email, Name: "Test", CreatedAt: time.Now()}
	require.NoError(t, users.Create(u))
	return u
}

func newGoal(userID, name string) *model.Goal {
	now := time.Now().UTC().Truncate(time.Second)
	deadline := "2030-01-01"
	return &model.Goal{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Unit:      "km",
		Target:    100,
		Baseline:  10,
		Current:   10,
		Deadline:  &deadline,
		Color:     "#3B82F6",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserRepository(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)

	u := seedUser(t, users, "a@example.com")

	got, err := users.ByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = users.ByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	err = users.Create(&model.User{ID: uuid.NewString(), Email: "a@example.com", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = users.ByEmail("missing@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, users.Delete(u.ID))
	assert.ErrorIs(t, users.Delete(u.ID), ErrUserNotFound)
}

func TestGoalRepositoryCRUD(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	owner := seedUser(t, users, "owner@example.com")
	other := seedUser(t, users, "other@example.com")

	g := newGoal(owner.ID, "Run")
	require.NoError(t, goals.Create(g))
	assert.Equal(t, 1, g.Version)

	got, err := goals.ByID(owner.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run", got.Name)
	require.NotNil(t, got.Deadline)
	assert.Equal(t, "2030-01-01", *got.Deadline)
	assert.Nil(t, got.CompletedAt)
	assert.WithinDuration(t, g.CreatedAt, got.CreatedAt, time.Second)

	_, err = goals.ByID(other.ID, g.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)

	got.Name = "Run more"
	got.Deadline = nil
	require.NoError(t, goals.Update(got))
	assert.Equal(t, 2, got.Version)

	reloaded, err := goals.ByID(owner.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run more", reloaded.Name)
	assert.Nil(t, reloaded.Deadline)
	assert.Equal(t, 2, reloaded.Version)

	list, err := goals.Goals(owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = goals.Goals(other.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGoalRepositoryStaleVersion(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	owner := seedUser(t, users, "owner@example.com")

	g := newGoal(owner.ID, "Read")
	require.NoError(t, goals.Create(g))

	first, err := goals.ByID(owner.ID, g.ID)
	require.NoError(t, err)
	second, err := goals.ByID(owner.ID, g.ID)
	require.NoError(t, err)

	first.Current = 20
	require.NoError(t, goals.ApplyProgress(first, nil))

	second.Current = 30
	assert.ErrorIs(t, goals.ApplyProgress(second, nil), ErrConflict)
	assert.ErrorIs(t, goals.Update(second), ErrConflict)

	missing := newGoal(owner.ID, "Ghost")
	assert.ErrorIs(t, goals.Update(missing), ErrGoalNotFound)
}

func TestApplyProgressStoresEventAtomically(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	events := NewProgressEventRepository(database)
	owner := seedUser(t, users, "owner@example.com")

	g := newGoal(owner.ID, "Save")
	require.NoError(t, goals.Create(g))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, delta := range []float64{5, 15, -2} {
		g.Current += delta
		g.UpdatedAt = at
		e := &model.ProgressEvent{
			ID:             uuid.NewString(),
			GoalID:         g.ID,
			Seq:            g.Version + 1,
			Delta:          delta,
			ResultingValue: g.Current,
			Note:           "step",
			CreatedAt:      at.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, goals.ApplyProgress(g, e))
	}

	history, err := events.History(g.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, []float64{5, 15, -2}, []float64{history[0].Delta, history[1].Delta, history[2].Delta})
	assert.Equal(t, 28.0, history[2].ResultingValue)
	assert.Equal(t, 4, history[2].Seq)

	stored, err := goals.ByID(owner.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 28.0, stored.Current)
	assert.Equal(t, 4, stored.Version)

	// A stale write must not leave an orphan event behind.
	stale := *stored
	stale.Version = 1
	e := &model.ProgressEvent{ID: uuid.NewString(), GoalID: g.ID, Seq: 2, Delta: 1, ResultingValue: 29, CreatedAt: at}
	assert.ErrorIs(t, goals.ApplyProgress(&stale, e), ErrConflict)

	history, err = events.History(g.ID)
	require.NoError(t, err)
	assert.Len(t, history, 3)
}

func TestHistoryOrdersBySeqWithinSameInstant(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	events := NewProgressEventRepository(database)
	owner := seedUser(t, users, "owner@example.com")

	g := newGoal(owner.ID, "Tie")
	require.NoError(t, goals.Create(g))

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, seq := range []int{3, 2} {
		require.NoError(t, events.Append(&model.ProgressEvent{
			ID: uuid.NewString(), GoalID: g.ID, Seq: seq, Delta: float64(seq), CreatedAt: at,
		}))
	}

	history, err := events.History(g.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Seq)
	assert.Equal(t, 3, history[1].Seq)
}

func TestUserEventsSince(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	events := NewProgressEventRepository(database)
	owner := seedUser(t, users, "owner@example.com")
	other := seedUser(t, users, "other@example.com")

	mine := newGoal(owner.ID, "Mine")
	theirs := newGoal(other.ID, "Theirs")
	require.NoError(t, goals.Create(mine))
	require.NoError(t, goals.Create(theirs))

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	add := func(goalID string, at time.Time) {
		require.NoError(t, events.Append(&model.ProgressEvent{
			ID: uuid.NewString(), GoalID: goalID, Seq: 2, Delta: 1, CreatedAt: at,
		}))
	}
	add(mine.ID, base.AddDate(0, 0, -40))
	add(mine.ID, base.AddDate(0, 0, -2))
	add(mine.ID, base)
	add(theirs.ID, base)

	got, err := events.UserEventsSince(owner.ID, base.AddDate(0, 0, -30))
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, mine.ID, e.GoalID)
	}
}

func TestDeleteRemovesHistory(t *testing.T) {
	database := newTestDB(t)
	users := NewUserRepository(database)
	goals := NewGoalRepository(database)
	events := NewProgressEventRepository(database)
	owner := seedUser(t, users, "owner@example.com")
	other := seedUser(t, users, "other@example.com")

	g := newGoal(owner.ID, "Gone")
	require.NoError(t, goals.Create(g))
	require.NoError(t, events.Append(&model.ProgressEvent{
		ID: uuid.NewString(), GoalID: g.ID, Seq: 2, Delta: 1, CreatedAt: time.Now(),
	}))

	assert.ErrorIs(t, goals.Delete(other.ID, g.ID), ErrGoalNotFound)

	history, err := events.History(g.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	require.NoError(t, goals.Delete(owner.ID, g.ID))

	history, err = events.History(g.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = goals.ByID(owner.ID, g.ID)
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalpace/internal/db"
	"github.com/templui/goalpace/internal/model"
	"github.com/templui/goalpace/internal/repository"
	"golang.org/x/text/language"
)

var testNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	email string
}

func (n *fakeNotifier) SendGoalCompletedEmail(ctx context.Context, email, name string, goal *model.Goal) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, goal.ID)
	n.email = email
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeArchive struct {
	objects map[string][]byte
}

func (a *fakeArchive) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	var buf bytes.Buffer
	_, err := io.Copy(&buf, body)
	if err != nil {
		return err
	}
	a.objects[key] = buf.Bytes()
	return nil
}

func (a *fakeArchive) PresignedURL(ctx context.Context, key string) (string, error) {
	return "https://archive.test/" + key + "?sig=1", nil
}

type testEnv struct {
	users    repository.UserRepository
	goals    repository.GoalRepository
	events   repository.ProgressEventRepository
	svc      *GoalService
	stats    *StatsService
	notifier *fakeNotifier
	archive  *fakeArchive
	clock    *time.Time
	user     *model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(database) })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	clock := testNow
	env := &testEnv{
		users:    repository.NewUserRepository(database),
		goals:    repository.NewGoalRepository(database),
		events:   repository.NewProgressEventRepository(database),
		notifier: &fakeNotifier{},
		archive:  &fakeArchive{objects: map[string][]byte{}},
		clock:    &clock,
	}
	now := func() time.Time { return *env.clock }

	env.svc = NewGoalService(env.goals, env.events, env.users, env.notifier, env.archive, language.English)
	env.svc.now = now
	env.stats = NewStatsService(env.goals, env.events, 30)
	env.stats.now = now

	env.user = env.newUser(t, "runner@example.com")
	return env
}

func (e *testEnv) newUser(t *testing.T, email string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.NewString(), Email: email, Name: "Runner", CreatedAt: testNow}
	require.NoError(t, e.users.Create(u))
	return u
}

func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

func (e *testEnv) createGoal(t *testing.T, name string, baseline, target float64) *model.Goal {
	t.Helper()
	g, err := e.svc.Create(context.Background(), e.user.ID, CreateGoalInput{
		Name:     name,
		Unit:     "km",
		Target:   target,
		Baseline: baseline,
		Color:    "#3b82f6",
	})
	require.NoError(t, err)
	return g
}

func strptr(s string) *string {
	return &s
}

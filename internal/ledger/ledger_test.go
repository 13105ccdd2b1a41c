package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalpace/internal/model"
)

var t0 = time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)

func newGoal(baseline, target float64) *model.Goal {
	return &model.Goal{ID: "g1", Target: target, Baseline: baseline, Current: baseline, CreatedAt: t0}
}

func TestAppendDelta(t *testing.T) {
	g := newGoal(2, 10)

	e, err := Append(g, Delta(3, "first run"), t0.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, e)

	assert.Equal(t, "g1", e.GoalID)
	assert.Equal(t, 3.0, e.Delta)
	assert.Equal(t, 5.0, e.ResultingValue)
	assert.Equal(t, "first run", e.Note)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, 5.0, g.Current)
	assert.Nil(t, g.CompletedAt)
}

func TestAppendZeroDeltaLeavesGoalUntouched(t *testing.T) {
	g := newGoal(4, 10)

	e, err := Append(g, Delta(0, ""), t0)
	require.ErrorIs(t, err, ErrInvalidDelta)
	assert.Nil(t, e)
	assert.Equal(t, 4.0, g.Current)
	assert.True(t, g.UpdatedAt.IsZero())
}

func TestAppendRejectsNegativeCurrent(t *testing.T) {
	g := newGoal(4, 10)

	_, err := Append(g, Delta(-5, ""), t0)
	require.ErrorIs(t, err, ErrNegativeProgress)
	require.ErrorIs(t, err, ErrInvalidDelta)
	assert.Equal(t, 4.0, g.Current)

	_, err = Append(g, Delta(-4, ""), t0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, g.Current)
}

func TestAppendAllowsOverTarget(t *testing.T) {
	g := newGoal(0, 10)

	_, err := Append(g, Delta(25, ""), t0)
	require.NoError(t, err)
	assert.Equal(t, 25.0, g.Current)
	assert.Equal(t, 100, g.Percentage())
}

func TestCompletionIsSticky(t *testing.T) {
	g := newGoal(0, 10)
	crossed := t0.Add(time.Hour)

	_, err := Append(g, Delta(10, ""), crossed)
	require.NoError(t, err)
	require.NotNil(t, g.CompletedAt)
	assert.Equal(t, crossed, *g.CompletedAt)

	_, err = Append(g, Delta(-6, "oops"), crossed.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 40, g.Percentage())
	require.NotNil(t, g.CompletedAt, "completion must survive a drop below 100%")
	assert.Equal(t, crossed, *g.CompletedAt)

	_, err = Append(g, Delta(6, ""), crossed.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, crossed, *g.CompletedAt, "completion is stamped once")
}

func TestCompleteMarker(t *testing.T) {
	g := newGoal(3, 10)
	at := t0.Add(time.Hour)

	e, err := Append(g, CompleteMarker("done"), at)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.True(t, e.Complete)
	assert.Equal(t, 7.0, e.Delta)
	assert.Equal(t, 10.0, e.ResultingValue)
	assert.Equal(t, 10.0, g.Current)
	require.NotNil(t, g.CompletedAt)
	assert.Equal(t, at, *g.CompletedAt)
}

func TestCompleteMarkerAtTargetRecordsNothing(t *testing.T) {
	g := newGoal(10, 10)

	e, err := Append(g, CompleteMarker(""), t0)
	require.NoError(t, err)
	assert.Nil(t, e)
	assert.Equal(t, 10.0, g.Current)
	require.NotNil(t, g.CompletedAt)
}

func TestCompleteMarkerAboveTarget(t *testing.T) {
	g := newGoal(0, 10)
	_, err := Append(g, Delta(15, ""), t0)
	require.NoError(t, err)

	e, err := Append(g, CompleteMarker(""), t0.Add(time.Minute))
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, -5.0, e.Delta)
	assert.Equal(t, 10.0, g.Current)
}

func TestSummarizeRoundTrip(t *testing.T) {
	g := newGoal(5, 40)

	var events []*model.ProgressEvent
	for i, d := range []float64{3, -1.5, 12, 30, -8.25} {
		e, err := Append(g, Delta(d, ""), t0.Add(time.Duration(i)*25*time.Hour))
		require.NoError(t, err)
		events = append(events, e)
	}
	e, err := Append(g, CompleteMarker("finished"), t0.Add(200*time.Hour))
	require.NoError(t, err)
	events = append(events, e)

	// storage may hand events back in any order
	shuffled := []*model.ProgressEvent{events[3], events[0], events[5], events[1], events[4], events[2]}
	s := Summarize(g, shuffled, time.UTC)

	assert.Equal(t, 5.0, s.InitialValue)
	require.Len(t, s.Rows, 6)

	value := s.InitialValue
	for i, row := range s.Rows {
		value += row.Delta
		assert.Equal(t, events[i].ResultingValue, row.ResultingValue)
		assert.Equal(t, value, row.ResultingValue)
	}
	assert.Equal(t, g.Current, value)
	assert.NoError(t, Verify(g, shuffled))

	assert.Equal(t, "2025-01-05", s.Rows[0].Date)
	assert.Equal(t, "2025-01-06", s.Rows[1].Date)
	assert.Equal(t, 20, s.Rows[0].Percentage)
	assert.Equal(t, 100, s.Rows[5].Percentage)
	assert.Equal(t, "finished", s.Rows[5].Note)
	assert.True(t, s.Rows[5].Complete)
}

func TestSummarizeEmpty(t *testing.T) {
	g := newGoal(7, 10)
	s := Summarize(g, nil, time.UTC)

	assert.Equal(t, 7.0, s.InitialValue)
	assert.NotNil(t, s.Rows)
	assert.Empty(t, s.Rows)
}

func TestSummarizeUsesLocalDates(t *testing.T) {
	g := newGoal(0, 10)
	e, err := Append(g, Delta(1, ""), time.Date(2025, 1, 5, 22, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	loc := time.FixedZone("UTC+3", 3*3600)
	s := Summarize(g, []*model.ProgressEvent{e}, loc)
	assert.Equal(t, "2025-01-06", s.Rows[0].Date)
}

func TestVerifyDetectsMismatch(t *testing.T) {
	g := newGoal(0, 10)
	e, err := Append(g, Delta(4, ""), t0)
	require.NoError(t, err)

	g.Current = 5
	assert.ErrorIs(t, Verify(g, []*model.ProgressEvent{e}), ErrReplayMismatch)
}

func TestStampCompletion(t *testing.T) {
	g := newGoal(50, 100)
	assert.False(t, StampCompletion(g, time.Now()))
	assert.Nil(t, g.CompletedAt)

	g.Target = 50
	stamped := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	assert.True(t, StampCompletion(g, stamped))
	require.NotNil(t, g.CompletedAt)
	assert.Equal(t, stamped, *g.CompletedAt)

	assert.False(t, StampCompletion(g, stamped.Add(time.Hour)))
	assert.Equal(t, stamped, *g.CompletedAt)
}

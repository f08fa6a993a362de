package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"honk/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStartAndFinishRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.StartRun(ctx, domain.Run{
		Command:     "goose session start",
		ExecutionID: "exec-1",
		ID:          "run-1",
		StartedAt:   started,
	}))

	run, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateRunning, run.State)
	assert.Nil(t, run.Exit)
	assert.Nil(t, run.EndedAt)

	require.NoError(t, store.AddOutputBytes(ctx, "run-1", 10))
	require.NoError(t, store.AddOutputBytes(ctx, "run-1", 5))
	require.NoError(t, store.FinishRun(ctx, "run-1", domain.ExitStatus{Code: 2}))

	run, err = store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateExited, run.State)
	assert.Equal(t, int64(15), run.BytesOut)
	require.NotNil(t, run.Exit)
	assert.Equal(t, 2, run.Exit.Code)
	assert.False(t, run.Exit.Signaled)
	assert.NotNil(t, run.EndedAt)
	assert.True(t, run.StartedAt.Equal(started))
}

func TestFinishRunSignaled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.StartRun(ctx, domain.Run{ID: "run-1", Command: "cat", StartedAt: time.Now()}))
	require.NoError(t, store.FinishRun(ctx, "run-1", domain.ExitStatus{Signaled: true, Signal: "SIGTERM"}))

	run, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, run.Exit)
	assert.True(t, run.Exit.Signaled)
	assert.Equal(t, "SIGTERM", run.Exit.Signal)
	_, hasCode := run.Exit.ExitCode()
	assert.False(t, hasCode)
}

func TestFailRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.FailRun(ctx, domain.Run{
		Command:   "nonexistent-binary-xyz",
		ID:        "run-failed",
		Reason:    "executable file not found in $PATH",
		StartedAt: time.Now(),
	}))

	run, err := store.GetRun(ctx, "run-failed")
	require.NoError(t, err)
	assert.Equal(t, domain.StateFailed, run.State)
	assert.Contains(t, run.Reason, "not found")
	assert.NotNil(t, run.EndedAt)
}

func TestUnknownRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	assert.ErrorIs(t, store.FinishRun(ctx, "missing", domain.ExitStatus{}), domain.ErrRunNotFound)
	assert.ErrorIs(t, store.AddOutputBytes(ctx, "missing", 1), domain.ErrRunNotFound)
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"old", "middle", "new"} {
		require.NoError(t, store.StartRun(ctx, domain.Run{
			Command:   "goose session start",
			ID:        id,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[2].ID)

	runs, err = store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, []string{"new", "middle"}, []string{runs[0].ID, runs[1].ID})
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.StartRun(ctx, domain.Run{ID: "run-1", Command: "cat", StartedAt: time.Now()}))
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestListRunsOrdersMixedZones(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// 10:00 UTC written as 08:00-02:00 sorts before 09:30 UTC as text
	west := time.FixedZone("UTC-2", -2*60*60)
	later := time.Date(2026, 3, 1, 8, 0, 0, 0, west)
	earlier := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	require.NoError(t, store.StartRun(ctx, domain.Run{ID: "later", Command: "goose", StartedAt: later}))
	require.NoError(t, store.FailRun(ctx, domain.Run{ID: "earlier", Command: "goose", Reason: "not found", StartedAt: earlier}))

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "later", runs[0].ID)
	assert.Equal(t, "earlier", runs[1].ID)
	assert.True(t, runs[0].StartedAt.Equal(later))
}

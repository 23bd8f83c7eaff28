package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/monster-pipeline/internal/model"
)

// storeUnderTest runs the same suite against every driver with real storage.
func storeUnderTest(t *testing.T, name string) Store {
	t.Helper()
	switch name {
	case "memory":
		return NewMemory()
	case "sqlite":
		s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		require.NoError(t, s.Migrate(context.Background()))
		return s
	default:
		t.Fatalf("unknown driver %s", name)
		return nil
	}
}

func forEachDriver(t *testing.T, fn func(t *testing.T, s Store)) {
	for _, driver := range []string{"memory", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			fn(t, storeUnderTest(t, driver))
		})
	}
}

func TestRunLifecycle(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		run, err := s.CreateRun(ctx, "monsters.json")
		require.NoError(t, err)
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, "monsters.json", run.OutputFile)
		assert.Equal(t, model.RunStatusQueued, run.Status)

		require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusFetching))

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusFetching, got.Status)

		require.NoError(t, s.FailRun(ctx, run.ID, "catalog unreachable"))
		got, err = s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusFailed, got.Status)
		assert.Equal(t, "catalog unreachable", got.Error)
	})
}

func TestRunNotFound(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.GetRun(ctx, "nope")
		require.Error(t, err)
		require.Error(t, s.UpdateRunStatus(ctx, "nope", model.RunStatusComplete))
		require.Error(t, s.FailRun(ctx, "nope", "x"))
	})
}

func TestListRuns(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		a, err := s.CreateRun(ctx, "a.json")
		require.NoError(t, err)
		_, err = s.CreateRun(ctx, "b.json")
		require.NoError(t, err)
		require.NoError(t, s.UpdateRunStatus(ctx, a.ID, model.RunStatusComplete))

		all, err := s.ListRuns(ctx, RunFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
		require.NoError(t, err)
		require.Len(t, complete, 1)
		assert.Equal(t, a.ID, complete[0].ID)

		limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})
}

func TestPhaseLifecycle(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		run, err := s.CreateRun(ctx, "monsters.json")
		require.NoError(t, err)

		phase, err := s.CreatePhase(ctx, run.ID, model.StageFetch)
		require.NoError(t, err)
		assert.Equal(t, model.PhaseStatusRunning, phase.Status)

		require.NoError(t, s.CompletePhase(ctx, phase.ID, model.PhaseStatusComplete, 42, ""))

		failed, err := s.CreatePhase(ctx, run.ID, model.StageSample)
		require.NoError(t, err)
		require.NoError(t, s.CompletePhase(ctx, failed.ID, model.PhaseStatusFailed, 7, "empty catalog"))

		phases, err := s.ListPhases(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, phases, 2)
		assert.Equal(t, model.StageFetch, phases[0].Name)
		assert.Equal(t, model.PhaseStatusComplete, phases[0].Status)
		assert.Equal(t, int64(42), phases[0].DurationMS)
		assert.Equal(t, model.StageSample, phases[1].Name)
		assert.Equal(t, "empty catalog", phases[1].Error)
	})
}

func TestPushPull(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		run, err := s.CreateRun(ctx, "monsters.json")
		require.NoError(t, err)

		_, found, err := s.Pull(ctx, run.ID, model.StageFetch)
		require.NoError(t, err)
		assert.False(t, found)

		payload := []byte(`[{"index":"goblin","name":"Goblin","url":"/api/2014/monsters/goblin"}]`)
		require.NoError(t, s.Push(ctx, run.ID, model.StageFetch, payload))

		got, found, err := s.Pull(ctx, run.ID, model.StageFetch)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, payload, got)

		// A second push for the same key replaces the payload.
		require.NoError(t, s.Push(ctx, run.ID, model.StageFetch, []byte(`[]`)))
		got, found, err = s.Pull(ctx, run.ID, model.StageFetch)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte(`[]`), got)
	})
}

func TestPullIsolatedByRun(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		a, err := s.CreateRun(ctx, "a.json")
		require.NoError(t, err)
		b, err := s.CreateRun(ctx, "b.json")
		require.NoError(t, err)

		require.NoError(t, s.Push(ctx, a.ID, model.StageFetch, []byte(`["a"]`)))

		_, found, err := s.Pull(ctx, b.ID, model.StageFetch)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

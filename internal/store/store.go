// Package store persists pipeline run records and the inter-stage hand-off.
//
// The hand-off is a push-by-key / pull-by-key mechanism: each stage pushes
// its serialized output under (run ID, stage name) and the next stage pulls
// it back. The memory driver backs direct in-process runs and tests; the
// sqlite and postgres drivers let an external scheduler drive stages as
// separate processes against a shared result store.
package store

import (
	"context"

	"github.com/sells-group/monster-pipeline/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
}

// Store defines the persistence interface for the monster pipeline.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, outputFile string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	FailRun(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Phases
	CreatePhase(ctx context.Context, runID string, name model.Stage) (*model.RunPhase, error)
	CompletePhase(ctx context.Context, phaseID string, status model.PhaseStatus, durationMS int64, cause string) error
	ListPhases(ctx context.Context, runID string) ([]model.RunPhase, error)

	// Stage hand-off. Pull reports found=false when nothing was pushed for
	// the key; the caller decides whether that is fatal.
	Push(ctx context.Context, runID string, stage model.Stage, payload []byte) error
	Pull(ctx context.Context, runID string, stage model.Stage) (payload []byte, found bool, err error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

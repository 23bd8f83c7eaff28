package model

import "time"

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusFetching   RunStatus = "fetching"
	RunStatusSampling   RunStatus = "sampling"
	RunStatusEnriching  RunStatus = "enriching"
	RunStatusPersisting RunStatus = "persisting"
	RunStatusComplete   RunStatus = "complete"
	RunStatusSkipped    RunStatus = "skipped"
	RunStatusFailed     RunStatus = "failed"
)

// Stage identifies one pipeline stage. Stage names double as hand-off keys:
// each stage pushes its output under its own name and pulls its input from
// the previous stage's name.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageSample  Stage = "sample"
	StageEnrich  Stage = "enrich"
	StagePersist Stage = "persist"
)

// Upstream returns the stage whose output feeds this stage, or "" for the
// first stage.
func (s Stage) Upstream() Stage {
	switch s {
	case StageSample:
		return StageFetch
	case StageEnrich:
		return StageSample
	case StagePersist:
		return StageEnrich
	default:
		return ""
	}
}

// Run represents a single pipeline invocation.
type Run struct {
	ID         string    `json:"id"`
	OutputFile string    `json:"output_file"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PhaseStatus represents the state of one stage within a run.
type PhaseStatus string

const (
	PhaseStatusRunning  PhaseStatus = "running"
	PhaseStatusComplete PhaseStatus = "complete"
	PhaseStatusFailed   PhaseStatus = "failed"
)

// RunPhase records one stage execution within a run.
type RunPhase struct {
	ID         string      `json:"id"`
	RunID      string      `json:"run_id"`
	Name       Stage       `json:"name"`
	Status     PhaseStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
	DurationMS int64       `json:"duration_ms"`
	StartedAt  time.Time   `json:"started_at"`
}

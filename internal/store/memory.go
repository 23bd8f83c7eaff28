package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/monster-pipeline/internal/model"
)

// MemoryStore implements Store with in-process maps. It backs direct
// single-process pipeline runs, where the hand-off never leaves memory.
type MemoryStore struct {
	mu      sync.Mutex
	runs    map[string]*model.Run
	phases  map[string]*model.RunPhase
	results map[string][]byte
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		runs:    make(map[string]*model.Run),
		phases:  make(map[string]*model.RunPhase),
		results: make(map[string][]byte),
	}
}

func resultKey(runID string, stage model.Stage) string {
	return runID + "/" + string(stage)
}

func (s *MemoryStore) CreateRun(_ context.Context, outputFile string) (*model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	run := &model.Run{
		ID:         uuid.New().String(),
		OutputFile: outputFile,
		Status:     model.RunStatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.runs[run.ID] = run
	return cloneRun(run), nil
}

func (s *MemoryStore) UpdateRunStatus(_ context.Context, runID string, status model.RunStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return eris.Errorf("run not found: %s", runID)
	}
	run.Status = status
	run.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) FailRun(_ context.Context, runID string, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return eris.Errorf("run not found: %s", runID)
	}
	run.Status = model.RunStatusFailed
	run.Error = cause
	run.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, runID string) (*model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return nil, eris.Errorf("run not found: %s", runID)
	}
	return cloneRun(run), nil
}

func (s *MemoryStore) ListRuns(_ context.Context, filter RunFilter) ([]model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var runs []model.Run
	for _, run := range s.runs {
		if filter.Status != "" && run.Status != filter.Status {
			continue
		}
		runs = append(runs, *run)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if filter.Limit > 0 && len(runs) > filter.Limit {
		runs = runs[:filter.Limit]
	}
	return runs, nil
}

func (s *MemoryStore) CreatePhase(_ context.Context, runID string, name model.Stage) (*model.RunPhase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return nil, eris.Errorf("run not found: %s", runID)
	}
	phase := &model.RunPhase{
		ID:        uuid.New().String(),
		RunID:     runID,
		Name:      name,
		Status:    model.PhaseStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	s.phases[phase.ID] = phase
	return clonePhase(phase), nil
}

func (s *MemoryStore) CompletePhase(_ context.Context, phaseID string, status model.PhaseStatus, durationMS int64, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase, ok := s.phases[phaseID]
	if !ok {
		return eris.Errorf("phase not found: %s", phaseID)
	}
	phase.Status = status
	phase.DurationMS = durationMS
	phase.Error = cause
	return nil
}

func (s *MemoryStore) ListPhases(_ context.Context, runID string) ([]model.RunPhase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var phases []model.RunPhase
	for _, phase := range s.phases {
		if phase.RunID == runID {
			phases = append(phases, *phase)
		}
	}
	sort.Slice(phases, func(i, j int) bool {
		return phases[i].StartedAt.Before(phases[j].StartedAt)
	})
	return phases, nil
}

func (s *MemoryStore) Push(_ context.Context, runID string, stage model.Stage, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(payload))
	copy(buf, payload)
	s.results[resultKey(runID, stage)] = buf
	return nil
}

func (s *MemoryStore) Pull(_ context.Context, runID string, stage model.Stage) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, ok := s.results[resultKey(runID, stage)]
	if !ok {
		return nil, false, nil
	}
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return buf, true, nil
}

func (s *MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func cloneRun(run *model.Run) *model.Run {
	c := *run
	return &c
}

func clonePhase(phase *model.RunPhase) *model.RunPhase {
	c := *phase
	return &c
}

// Package pipeline implements the four-stage monster pipeline: fetch the
// catalog, sample a subset, enrich with detail records, persist to a JSON
// file. Stages run strictly sequentially and hand their output to the next
// stage through the store's push/pull mechanism, so a run can execute
// in-process or stage-by-stage under an external scheduler.
package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/monster-pipeline/internal/model"
	"github.com/sells-group/monster-pipeline/internal/store"
	"github.com/sells-group/monster-pipeline/pkg/dndapi"
)

// Stages lists the pipeline stages in execution order.
var Stages = []model.Stage{model.StageFetch, model.StageSample, model.StageEnrich, model.StagePersist}

// Options configures a pipeline.
type Options struct {
	// SampleCount is how many monsters to select. Defaults to 5.
	SampleCount int
	// FetchLimit truncates the catalog to its first N entries when > 0.
	FetchLimit int
	// OutputFile is the persisted JSON array destination. Its presence
	// short-circuits a run. Defaults to monsters.json.
	OutputFile string
}

// Pipeline drives the four stages against an API client and a store.
type Pipeline struct {
	opts   Options
	client dndapi.Client
	store  store.Store
}

// New creates a Pipeline with the given dependencies.
func New(opts Options, client dndapi.Client, st store.Store) *Pipeline {
	if opts.SampleCount == 0 {
		opts.SampleCount = 5
	}
	if opts.OutputFile == "" {
		opts.OutputFile = "monsters.json"
	}
	return &Pipeline{opts: opts, client: client, store: st}
}

// Run executes the full pipeline as one run. If the output file already
// exists the run is recorded as skipped and no stage executes; re-running
// against a produced output is a no-op, not a re-fetch. On the first stage
// failure the run is marked failed and the error returned; no output file
// is written by a failed run.
func (p *Pipeline) Run(ctx context.Context) (*model.Run, error) {
	if _, err := os.Stat(p.opts.OutputFile); err == nil {
		zap.L().Info("run: output file already exists, skipping pipeline",
			zap.String("file", p.opts.OutputFile),
		)
		run, err := p.store.CreateRun(ctx, p.opts.OutputFile)
		if err != nil {
			return nil, eris.Wrap(err, "run: create run")
		}
		if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusSkipped); err != nil {
			return nil, eris.Wrap(err, "run: mark skipped")
		}
		run.Status = model.RunStatusSkipped
		return run, nil
	}

	run, err := p.store.CreateRun(ctx, p.opts.OutputFile)
	if err != nil {
		return nil, eris.Wrap(err, "run: create run")
	}

	for _, stage := range Stages {
		if err := p.store.UpdateRunStatus(ctx, run.ID, stageStatus(stage)); err != nil {
			zap.L().Warn("run: failed to update status", zap.Error(err))
		}

		if err := p.trackStage(ctx, run.ID, stage); err != nil {
			if failErr := p.store.FailRun(ctx, run.ID, err.Error()); failErr != nil {
				zap.L().Warn("run: failed to record failure", zap.Error(failErr))
			}
			run.Status = model.RunStatusFailed
			run.Error = err.Error()
			return run, eris.Wrapf(err, "run %s: stage %s", run.ID, stage)
		}
	}

	if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusComplete); err != nil {
		zap.L().Warn("run: failed to update status", zap.Error(err))
	}
	run.Status = model.RunStatusComplete

	zap.L().Info("run: pipeline complete",
		zap.String("run_id", run.ID),
		zap.String("file", p.opts.OutputFile),
	)
	return run, nil
}

// trackStage executes one stage with phase bookkeeping.
func (p *Pipeline) trackStage(ctx context.Context, runID string, stage model.Stage) error {
	phase, phaseErr := p.store.CreatePhase(ctx, runID, stage)
	if phaseErr != nil {
		zap.L().Warn("run: failed to create phase", zap.String("stage", string(stage)), zap.Error(phaseErr))
	}

	start := time.Now()
	err := p.RunStage(ctx, runID, stage)
	duration := time.Since(start).Milliseconds()

	status := model.PhaseStatusComplete
	cause := ""
	if err != nil {
		status = model.PhaseStatusFailed
		cause = err.Error()
		zap.L().Error("run: stage failed",
			zap.String("stage", string(stage)),
			zap.Int64("duration_ms", duration),
			zap.Error(err),
		)
	} else {
		zap.L().Info("run: stage complete",
			zap.String("stage", string(stage)),
			zap.Int64("duration_ms", duration),
		)
	}

	if phase != nil {
		if completeErr := p.store.CompletePhase(ctx, phase.ID, status, duration, cause); completeErr != nil {
			zap.L().Warn("run: failed to complete phase", zap.Error(completeErr))
		}
	}
	return err
}

// RunStage executes a single stage: pull input from the upstream stage's
// hand-off, run the stage, push output under this stage's name. External
// schedulers invoke stages one at a time through this entry point.
func (p *Pipeline) RunStage(ctx context.Context, runID string, stage model.Stage) error {
	switch stage {
	case model.StageFetch:
		summaries, err := p.FetchSummaries(ctx, p.opts.FetchLimit)
		if err != nil {
			return err
		}
		return p.push(ctx, runID, stage, summaries)

	case model.StageSample:
		var summaries []model.MonsterSummary
		if err := p.pull(ctx, runID, stage, &summaries); err != nil {
			return err
		}
		if len(summaries) == 0 {
			return eris.Wrap(ErrMissingUpstreamData, "sample: empty catalog")
		}
		return p.push(ctx, runID, stage, SelectRandom(summaries, p.opts.SampleCount))

	case model.StageEnrich:
		var summaries []model.MonsterSummary
		if err := p.pull(ctx, runID, stage, &summaries); err != nil {
			return err
		}
		monsters, err := p.Enrich(ctx, summaries)
		if err != nil {
			return err
		}
		return p.push(ctx, runID, stage, monsters)

	case model.StagePersist:
		var monsters []model.Monster
		if err := p.pull(ctx, runID, stage, &monsters); err != nil {
			return err
		}
		if len(monsters) == 0 {
			return eris.Wrap(ErrMissingUpstreamData, "persist: no monsters to save")
		}
		path, err := Persist(monsters, p.opts.OutputFile)
		if err != nil {
			return err
		}
		return p.push(ctx, runID, stage, path)

	default:
		return eris.Errorf("unknown stage: %s", stage)
	}
}

// push serializes a stage's output into the hand-off store.
func (p *Pipeline) push(ctx context.Context, runID string, stage model.Stage, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return eris.Wrapf(err, "stage %s: marshal output", stage)
	}
	if err := p.store.Push(ctx, runID, stage, payload); err != nil {
		return eris.Wrapf(err, "stage %s: push output", stage)
	}
	return nil
}

// pull deserializes the upstream stage's output from the hand-off store.
// An absent payload is a MissingUpstreamData condition.
func (p *Pipeline) pull(ctx context.Context, runID string, stage model.Stage, out any) error {
	upstream := stage.Upstream()
	payload, found, err := p.store.Pull(ctx, runID, upstream)
	if err != nil {
		return eris.Wrapf(err, "stage %s: pull input", stage)
	}
	if !found || len(payload) == 0 {
		return eris.Wrapf(ErrMissingUpstreamData, "stage %s: no output from %s", stage, upstream)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return eris.Wrapf(err, "stage %s: decode input from %s", stage, upstream)
	}
	return nil
}

func stageStatus(stage model.Stage) model.RunStatus {
	switch stage {
	case model.StageFetch:
		return model.RunStatusFetching
	case model.StageSample:
		return model.RunStatusSampling
	case model.StageEnrich:
		return model.RunStatusEnriching
	case model.StagePersist:
		return model.RunStatusPersisting
	default:
		return model.RunStatusQueued
	}
}

package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/monster-pipeline/internal/model"
	"github.com/sells-group/monster-pipeline/internal/pipeline"
)

var (
	stageRunID  string
	stageOutput string
	stageCount  int
	stageLimit  int
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Run a single pipeline stage against the shared store",
	Long: "Executes one stage, pulling its input from the previous stage's " +
		"hand-off and pushing its output for the next. This is how an external " +
		"scheduler drives the pipeline task-by-task; use a sqlite or postgres " +
		"store so results survive across invocations.",
}

func stageSubCmd(stage model.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   string(stage),
		Short: fmt.Sprintf("Run the %s stage", stage),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if cfg.Store.Driver == "memory" {
				zap.L().Warn("stage: memory store does not persist hand-offs across invocations")
			}

			st, err := initStore(ctx)
			if err != nil {
				return eris.Wrap(err, "init store")
			}
			defer st.Close() //nolint:errcheck

			runID := stageRunID
			if runID == "" {
				if stage != model.StageFetch {
					return eris.Errorf("stage %s: --run-id is required", stage)
				}
				run, err := st.CreateRun(ctx, outputFileOrDefault())
				if err != nil {
					return eris.Wrap(err, "create run")
				}
				runID = run.ID
			}

			p := newPipeline(st, pipeline.Options{
				SampleCount: stageCount,
				FetchLimit:  stageLimit,
				OutputFile:  stageOutput,
			})

			if err := p.RunStage(ctx, runID, stage); err != nil {
				return eris.Wrapf(err, "stage %s", stage)
			}

			zap.L().Info("stage finished",
				zap.String("run_id", runID),
				zap.String("stage", string(stage)),
			)
			fmt.Println(runID)
			return nil
		},
	}
}

func outputFileOrDefault() string {
	if stageOutput != "" {
		return stageOutput
	}
	return cfg.Pipeline.OutputFile
}

func init() {
	stageCmd.PersistentFlags().StringVar(&stageRunID, "run-id", "", "run identifier (created by the fetch stage when omitted)")
	stageCmd.PersistentFlags().StringVar(&stageOutput, "output", "", "output file path (default from config)")
	stageCmd.PersistentFlags().IntVar(&stageCount, "count", 0, "number of monsters to sample (default from config)")
	stageCmd.PersistentFlags().IntVar(&stageLimit, "limit", 0, "truncate catalog to first N entries (default: unbounded)")

	for _, stage := range pipeline.Stages {
		stageCmd.AddCommand(stageSubCmd(stage))
	}
	rootCmd.AddCommand(stageCmd)
}

package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/monster-pipeline/internal/pipeline"
)

var (
	runOutput string
	runCount  int
	runLimit  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline in-process",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close() //nolint:errcheck

		p := newPipeline(st, pipeline.Options{
			SampleCount: runCount,
			FetchLimit:  runLimit,
			OutputFile:  runOutput,
		})

		run, err := p.Run(ctx)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("run finished",
			zap.String("run_id", run.ID),
			zap.String("status", string(run.Status)),
			zap.String("file", run.OutputFile),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

func init() {
	runCmd.Flags().StringVar(&runOutput, "output", "", "output file path (default from config)")
	runCmd.Flags().IntVar(&runCount, "count", 0, "number of monsters to sample (default from config)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "truncate catalog to first N entries (default: unbounded)")
	rootCmd.AddCommand(runCmd)
}

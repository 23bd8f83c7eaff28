package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/monster-pipeline/internal/config"
	"github.com/sells-group/monster-pipeline/internal/pipeline"
	"github.com/sells-group/monster-pipeline/internal/store"
	"github.com/sells-group/monster-pipeline/pkg/dndapi"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "monster-pipeline",
	Short: "D&D monster catalog pipeline",
	Long:  "Fetches the D&D 5e monster catalog, samples a random subset, enriches each monster with detail records, and persists the result as a JSON array file.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// initStore opens the configured store backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "memory":
		st = store.NewMemory()
	case "sqlite":
		s, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = s
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = s
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// newClient builds the API client from config.
func newClient() dndapi.Client {
	return dndapi.NewClient(
		dndapi.WithBaseURL(cfg.API.BaseURL),
		dndapi.WithSiteURL(cfg.API.SiteURL),
		dndapi.WithUserAgent(cfg.API.UserAgent),
		dndapi.WithTimeout(time.Duration(cfg.API.TimeoutSecs)*time.Second),
	)
}

// newPipeline wires the pipeline from config, with optional CLI overrides
// already applied to opts.
func newPipeline(st store.Store, opts pipeline.Options) *pipeline.Pipeline {
	if opts.SampleCount == 0 {
		opts.SampleCount = cfg.Pipeline.SampleCount
	}
	if opts.FetchLimit == 0 {
		opts.FetchLimit = cfg.Pipeline.FetchLimit
	}
	if opts.OutputFile == "" {
		opts.OutputFile = cfg.Pipeline.OutputFile
	}
	return pipeline.New(opts, newClient(), st)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

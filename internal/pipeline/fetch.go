package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/monster-pipeline/internal/model"
)

// FetchSummaries retrieves the monster catalog. limit > 0 truncates to the
// first limit entries in server-provided order; this is deliberate prefix
// truncation, not a sample. Any failure is a FetchError with no retry.
func (p *Pipeline) FetchSummaries(ctx context.Context, limit int) ([]model.MonsterSummary, error) {
	catalog, err := p.client.ListMonsters(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	results := catalog.Results
	if limit > 0 && len(results) > limit {
		zap.L().Info("fetch: limiting catalog",
			zap.Int("limit", limit),
			zap.Int("available", len(results)),
		)
		results = results[:limit]
	} else {
		zap.L().Info("fetch: retrieved catalog", zap.Int("count", len(results)))
	}

	return results, nil
}

package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/monster-pipeline/internal/model"
)

// Enrich fetches and normalizes detail records for the selected summaries,
// in order, one at a time. A failed detail fetch or normalization drops
// that one monster and continues; the stage itself only fails when handed
// nothing to enrich.
func (p *Pipeline) Enrich(ctx context.Context, summaries []model.MonsterSummary) ([]model.Monster, error) {
	if len(summaries) == 0 {
		return nil, eris.Wrap(ErrMissingUpstreamData, "enrich: no summaries to enrich")
	}

	monsters := make([]model.Monster, 0, len(summaries))
	for _, summary := range summaries {
		raw, err := p.client.GetMonster(ctx, summary.URL)
		if err != nil {
			zap.L().Error("enrich: detail fetch failed, dropping monster",
				zap.String("index", summary.Index),
				zap.String("url", summary.URL),
				zap.Error(&FetchError{Err: err}),
			)
			continue
		}

		monster, err := model.NormalizeMonster(raw)
		if err != nil {
			zap.L().Error("enrich: normalization failed, dropping monster",
				zap.String("index", summary.Index),
				zap.Error(err),
			)
			continue
		}

		monsters = append(monsters, monster)
		zap.L().Debug("enrich: processed monster",
			zap.String("name", monster.Name),
			zap.Intp("hit_points", monster.HitPoints),
		)
	}

	zap.L().Info("enrich: complete",
		zap.Int("selected", len(summaries)),
		zap.Int("enriched", len(monsters)),
		zap.Int("dropped", len(summaries)-len(monsters)),
	)

	return monsters, nil
}

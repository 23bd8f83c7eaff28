package pipeline

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/sells-group/monster-pipeline/internal/model"
)

// SelectRandom draws count distinct summaries uniformly, without
// replacement. When the population is smaller than count it returns
// everything available with a warning rather than failing. Randomness is
// unseeded on purpose; callers must not rely on sample identity.
func SelectRandom(summaries []model.MonsterSummary, count int) []model.MonsterSummary {
	if count <= 0 || len(summaries) == 0 {
		return []model.MonsterSummary{}
	}

	if len(summaries) < count {
		zap.L().Warn("sample: population smaller than requested, using all",
			zap.Int("requested", count),
			zap.Int("available", len(summaries)),
		)
		out := make([]model.MonsterSummary, len(summaries))
		copy(out, summaries)
		return out
	}

	selected := make([]model.MonsterSummary, 0, count)
	for _, i := range rand.Perm(len(summaries))[:count] {
		selected = append(selected, summaries[i])
	}

	names := make([]string, len(selected))
	for i, s := range selected {
		names[i] = s.Name
	}
	zap.L().Info("sample: selected monsters",
		zap.Int("count", len(selected)),
		zap.Int("population", len(summaries)),
		zap.Strings("names", names),
	)

	return selected
}

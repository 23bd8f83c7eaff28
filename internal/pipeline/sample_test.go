package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/monster-pipeline/internal/model"
)

func TestSelectRandom_Cardinality(t *testing.T) {
	population := summaries("a", "b", "c", "d", "e", "f", "g", "h")

	for _, count := range []int{1, 3, 8} {
		got := SelectRandom(population, count)
		assert.Len(t, got, count)

		seen := make(map[string]bool)
		for _, s := range got {
			assert.False(t, seen[s.Index], "duplicate index %s", s.Index)
			seen[s.Index] = true
		}
	}
}

func TestSelectRandom_MembershipSubset(t *testing.T) {
	population := summaries("a", "b", "c", "d", "e")
	members := make(map[string]bool)
	for _, s := range population {
		members[s.Index] = true
	}

	// Sample identity is non-deterministic by design; assert only
	// cardinality and membership.
	for range 20 {
		for _, s := range SelectRandom(population, 3) {
			assert.True(t, members[s.Index], "sampled unknown index %s", s.Index)
		}
	}
}

func TestSelectRandom_PopulationSmallerThanCount(t *testing.T) {
	population := summaries("a", "b")

	got := SelectRandom(population, 5)
	requireIndexes(t, got, "a", "b")
}

func TestSelectRandom_DoesNotMutateInput(t *testing.T) {
	population := summaries("a", "b", "c")

	_ = SelectRandom(population, 2)
	requireIndexes(t, population, "a", "b", "c")
}

func TestSelectRandom_EmptyPopulation(t *testing.T) {
	got := SelectRandom(nil, 5)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = SelectRandom([]model.MonsterSummary{}, 5)
	assert.Empty(t, got)
}

func TestSelectRandom_ZeroCount(t *testing.T) {
	assert.Empty(t, SelectRandom(summaries("a", "b"), 0))
	assert.Empty(t, SelectRandom(summaries("a", "b"), -1))
}

package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/monster-pipeline/internal/model"
)

// fakeClient is an in-memory dndapi.Client for stage tests.
type fakeClient struct {
	catalog    *model.CatalogResponse
	listErr    error
	details    map[string]string // ref -> raw JSON payload
	detailErrs map[string]error  // ref -> forced error
	listCalls  int
	getCalls   []string
}

func (f *fakeClient) ListMonsters(context.Context) (*model.CatalogResponse, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.catalog, nil
}

func (f *fakeClient) GetMonster(_ context.Context, ref string) (map[string]any, error) {
	f.getCalls = append(f.getCalls, ref)
	if err, ok := f.detailErrs[ref]; ok {
		return nil, err
	}
	payload, ok := f.details[ref]
	if !ok {
		return nil, eris.Errorf("no detail fixture for %s", ref)
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func summaries(indexes ...string) []model.MonsterSummary {
	out := make([]model.MonsterSummary, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, model.MonsterSummary{
			Index: idx,
			Name:  idx,
			URL:   "/api/2014/monsters/" + idx,
		})
	}
	return out
}

func catalogOf(indexes ...string) *model.CatalogResponse {
	results := summaries(indexes...)
	return &model.CatalogResponse{Count: len(results), Results: results}
}

func requireIndexes(t *testing.T, got []model.MonsterSummary, want ...string) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, s := range got {
		require.Equal(t, want[i], s.Index)
	}
}

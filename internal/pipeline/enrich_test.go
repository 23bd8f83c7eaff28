package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/monster-pipeline/internal/store"
)

func TestEnrich_Success(t *testing.T) {
	client := &fakeClient{details: map[string]string{
		"/api/2014/monsters/goblin": `{"name":"Goblin","hit_points":15,"armor_class":[{"value":12}],"actions":[{"name":"Scimitar","desc":"slash"}]}`,
		"/api/2014/monsters/orc":    `{"name":"Orc","hit_points":15,"armor_class":13}`,
	}}
	p := New(Options{}, client, store.NewMemory())

	monsters, err := p.Enrich(context.Background(), summaries("goblin", "orc"))
	require.NoError(t, err)

	require.Len(t, monsters, 2)
	assert.Equal(t, "Goblin", monsters[0].Name)
	require.NotNil(t, monsters[0].ArmorClass)
	assert.Equal(t, 12, *monsters[0].ArmorClass)
	assert.Equal(t, "Orc", monsters[1].Name)
	require.NotNil(t, monsters[1].ArmorClass)
	assert.Equal(t, 13, *monsters[1].ArmorClass)
}

func TestEnrich_PartialFailureDropsItem(t *testing.T) {
	client := &fakeClient{
		details: map[string]string{
			"/api/2014/monsters/goblin": `{"name":"Goblin","hit_points":15}`,
		},
		detailErrs: map[string]error{
			"/api/2014/monsters/orc": eris.New("502 bad gateway"),
		},
	}
	p := New(Options{}, client, store.NewMemory())

	monsters, err := p.Enrich(context.Background(), summaries("goblin", "orc"))
	require.NoError(t, err)

	require.Len(t, monsters, 1)
	assert.Equal(t, "Goblin", monsters[0].Name)
	// Both fetches were attempted; the failure did not stop the stage.
	assert.Equal(t, []string{"/api/2014/monsters/goblin", "/api/2014/monsters/orc"}, client.getCalls)
}

func TestEnrich_NormalizationFailureDropsItem(t *testing.T) {
	client := &fakeClient{details: map[string]string{
		"/api/2014/monsters/goblin": `{"name":"Goblin","actions":["not an object"]}`,
		"/api/2014/monsters/orc":    `{"name":"Orc"}`,
	}}
	p := New(Options{}, client, store.NewMemory())

	monsters, err := p.Enrich(context.Background(), summaries("goblin", "orc"))
	require.NoError(t, err)

	require.Len(t, monsters, 1)
	assert.Equal(t, "Orc", monsters[0].Name)
}

func TestEnrich_PreservesSelectionOrder(t *testing.T) {
	client := &fakeClient{
		details: map[string]string{
			"/api/2014/monsters/zombie": `{"name":"Zombie"}`,
			"/api/2014/monsters/goblin": `{"name":"Goblin"}`,
			"/api/2014/monsters/wight":  `{"name":"Wight"}`,
		},
		detailErrs: map[string]error{
			"/api/2014/monsters/orc": eris.New("timeout"),
		},
	}
	p := New(Options{}, client, store.NewMemory())

	monsters, err := p.Enrich(context.Background(), summaries("zombie", "orc", "goblin", "wight"))
	require.NoError(t, err)

	require.Len(t, monsters, 3)
	assert.Equal(t, "Zombie", monsters[0].Name)
	assert.Equal(t, "Goblin", monsters[1].Name)
	assert.Equal(t, "Wight", monsters[2].Name)
}

func TestEnrich_EmptyInput(t *testing.T) {
	p := New(Options{}, &fakeClient{}, store.NewMemory())

	_, err := p.Enrich(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingUpstreamData))
}

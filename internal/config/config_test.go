package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.dnd5eapi.co/api/2014", cfg.API.BaseURL)
	assert.Equal(t, "https://www.dnd5eapi.co", cfg.API.SiteURL)
	assert.Equal(t, 30, cfg.API.TimeoutSecs)
	assert.Equal(t, "monster-pipeline/1.0", cfg.API.UserAgent)
	assert.Equal(t, 5, cfg.Pipeline.SampleCount)
	assert.Equal(t, 0, cfg.Pipeline.FetchLimit)
	assert.Equal(t, "monsters.json", cfg.Pipeline.OutputFile)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
api:
  base_url: http://localhost:9999/api
  timeout_secs: 5
pipeline:
  sample_count: 3
  output_file: out.json
store:
  driver: sqlite
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/api", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.TimeoutSecs)
	assert.Equal(t, 3, cfg.Pipeline.SampleCount)
	assert.Equal(t, "out.json", cfg.Pipeline.OutputFile)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	// Defaults still apply for keys the file omits.
	assert.Equal(t, "https://www.dnd5eapi.co", cfg.API.SiteURL)
	assert.Equal(t, 0, cfg.Pipeline.FetchLimit)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("MONSTER_PIPELINE_SAMPLE_COUNT", "9")
	t.Setenv("MONSTER_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9, cfg.Pipeline.SampleCount)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}

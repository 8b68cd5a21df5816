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

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "prospects.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Normalize.Email)
	assert.True(t, cfg.Normalize.Phone)
	assert.True(t, cfg.Normalize.InferDomain)
	assert.Equal(t, "1", cfg.Normalize.DefaultCountryCode)
	assert.Equal(t, "fuzzy", cfg.Match.Strategy)
	assert.Zero(t, cfg.Match.Threshold)
	assert.True(t, cfg.Match.IgnoreDiacritics)
	assert.Equal(t, 5, cfg.Batch.Concurrency)
	assert.Equal(t, 3, cfg.Batch.RetryAttempts)
	assert.Equal(t, 1, cfg.Batch.RetryDelaySecs)
	assert.Equal(t, 10, cfg.Batch.ChunkSize)
	assert.Equal(t, 30, cfg.Extract.TimeoutSecs)
	assert.Equal(t, "prospect-ingest/1.0", cfg.Extract.UserAgent)
	assert.Equal(t, 3, cfg.Extract.Concurrency)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/prospects
match:
  strategy: strict
  threshold: 0.9
batch:
  concurrency: 8
  skip_errors: false
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/prospects", cfg.Store.DatabaseURL)
	assert.Equal(t, "strict", cfg.Match.Strategy)
	assert.InDelta(t, 0.9, cfg.Match.Threshold, 0.001)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.False(t, cfg.Batch.SkipErrors)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	// Unset fields keep their defaults.
	assert.Equal(t, 3, cfg.Batch.RetryAttempts)
	assert.True(t, cfg.Normalize.Email)
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("PROSPECT_STORE_DRIVER", "postgres")
	t.Setenv("PROSPECT_MATCH_STRATEGY", "domain")
	t.Setenv("PROSPECT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "domain", cfg.Match.Strategy)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "verbose", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}

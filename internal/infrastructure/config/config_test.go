package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FullFile(t *testing.T) {
	// Arrange
	path := writeConfig(t, `
server:
  port: 9090
  allowed_origins:
    - http://localhost:4000
storage:
  database_path: /tmp/recon-test.db
matching:
  date_tolerance_days: 5
  amount_tolerance_percent: 1.0
  use_pattern_learning: false
observability:
  logging:
    level: debug
    format: json
`)

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:4000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "/tmp/recon-test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `storage: {}`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "reconciliation.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.NotEmpty(t, cfg.Server.AllowedOrigins)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("RECON_TEST_DB", "/var/data/recon.db")
	path := writeConfig(t, `
storage:
  database_path: ${RECON_TEST_DB}
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/var/data/recon.db", cfg.Storage.DatabasePath)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")

	_, err := Load(path)

	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RECON_PORT", "7070")
	t.Setenv("RECON_DB_PATH", "/tmp/env.db")
	t.Setenv("RECON_LOG_LEVEL", "warn")

	cfg := LoadFromEnv()

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/tmp/env.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "warn", cfg.Observability.Logging.Level)
}

func TestLoadFromEnv_BadPortFallsBack(t *testing.T) {
	t.Setenv("RECON_PORT", "not-a-number")

	cfg := LoadFromEnv()

	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestToScoringConfig_Defaults(t *testing.T) {
	cfg := MatchingConfig{}.ToScoringConfig()

	assert.Equal(t, 3, cfg.DateToleranceDays)
	assert.Equal(t, 0.5, cfg.AmountTolerancePercent)
	assert.Equal(t, 60.0, cfg.DescriptionSimilarityThreshold)
	assert.Equal(t, 50.0, cfg.MinConfidenceScore)
	assert.True(t, cfg.UsePatternLearning)
	assert.True(t, cfg.EnableMultiTransactionMatching)
}

func TestToScoringConfig_Overrides(t *testing.T) {
	off := false
	matching := MatchingConfig{
		DateToleranceDays:              7,
		AmountTolerancePercent:         2.5,
		UsePatternLearning:             &off,
		EnableMultiTransactionMatching: &off,
	}

	cfg := matching.ToScoringConfig()

	assert.Equal(t, 7, cfg.DateToleranceDays)
	assert.Equal(t, 2.5, cfg.AmountTolerancePercent)
	assert.False(t, cfg.UsePatternLearning)
	assert.False(t, cfg.EnableMultiTransactionMatching)
	// Unset fields still fall back.
	assert.Equal(t, 60.0, cfg.DescriptionSimilarityThreshold)
}

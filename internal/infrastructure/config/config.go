// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	tolerances := cfg.Matching.ToScoringConfig()
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/clearledger/reconciliation-backend/internal/domain/scoring"
)

// Config represents the entire application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Matching      MatchingConfig      `yaml:"matching"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds database configuration.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// MatchingConfig holds the matching tolerances. All fields are optional in
// the file; zero values fall back to the scoring defaults on conversion.
type MatchingConfig struct {
	DateToleranceDays              int     `yaml:"date_tolerance_days"`
	AmountTolerancePercent         float64 `yaml:"amount_tolerance_percent"`
	DescriptionSimilarityThreshold float64 `yaml:"description_similarity_threshold"`
	MinConfidenceScore             float64 `yaml:"min_confidence_score"`
	UsePatternLearning             *bool   `yaml:"use_pattern_learning"`
	EnableMultiTransactionMatching *bool   `yaml:"enable_multi_transaction_matching"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ToScoringConfig converts the file/env settings into the scoring package's
// config, filling in defaults for anything unset.
func (m MatchingConfig) ToScoringConfig() scoring.Config {
	cfg := scoring.DefaultConfig()
	if m.DateToleranceDays > 0 {
		cfg.DateToleranceDays = m.DateToleranceDays
	}
	if m.AmountTolerancePercent > 0 {
		cfg.AmountTolerancePercent = m.AmountTolerancePercent
	}
	if m.DescriptionSimilarityThreshold > 0 {
		cfg.DescriptionSimilarityThreshold = m.DescriptionSimilarityThreshold
	}
	if m.MinConfidenceScore > 0 {
		cfg.MinConfidenceScore = m.MinConfidenceScore
	}
	if m.UsePatternLearning != nil {
		cfg.UsePatternLearning = *m.UsePatternLearning
	}
	if m.EnableMultiTransactionMatching != nil {
		cfg.EnableMultiTransactionMatching = *m.EnableMultiTransactionMatching
	}
	return cfg
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${RECON_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvInt("RECON_PORT", 8080),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("RECON_DB_PATH", "reconciliation.db"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("RECON_LOG_LEVEL", "info"),
				Format: getEnv("RECON_LOG_FORMAT", "text"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries config.yaml first, then falls back to environment
// variables.
func LoadOrEnv() *Config {
	if cfg, err := Load("config.yaml"); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "reconciliation.db"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

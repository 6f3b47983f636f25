// Package config provides configuration loading and structs for the metaboost server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	LogLevel  string          `yaml:"log_level"`
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Index     IndexConfig     `yaml:"index"`
	Recommend RecommendConfig `yaml:"recommend"`
	Scoring   ScoringConfig   `yaml:"scoring"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig holds the catalog files to load and whether to watch them for changes.
type CatalogConfig struct {
	Paths      []string `yaml:"paths"`
	Watch      bool     `yaml:"watch"`
	DebounceMS int      `yaml:"debounce_ms"`
}

// IndexConfig holds vector index build settings.
type IndexConfig struct {
	MaxFeatures    int `yaml:"max_features"`
	Workers        int `yaml:"workers"`
	QueryCacheSize int `yaml:"query_cache_size"`
}

// RecommendConfig holds query defaults.
type RecommendConfig struct {
	DefaultLimit         int      `yaml:"default_limit"`
	MaxLimit             int      `yaml:"max_limit"`
	DefaultMinSimilarity *float64 `yaml:"default_min_similarity"`
}

// MinSimilarityOrDefault returns the configured threshold; 0.1 when unset.
// An explicit 0 disables filtering.
func (r *RecommendConfig) MinSimilarityOrDefault() float64 {
	if r.DefaultMinSimilarity != nil {
		return *r.DefaultMinSimilarity
	}
	return 0.1
}

// ScoringConfig overrides or extends the feature lookup tables.
// Keys are matched case-insensitively.
type ScoringConfig struct {
	FormatScores    map[string]float64 `yaml:"format_scores"`
	LicenseScores   map[string]float64 `yaml:"license_scores"`
	FrequencyScores map[string]float64 `yaml:"frequency_scores"`
	StaleAfterDays  int                `yaml:"stale_after_days"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	for i := range cfg.Catalog.Paths {
		cfg.Catalog.Paths[i] = expandPath(cfg.Catalog.Paths[i], configDir)
	}

	return &cfg, nil
}

// Validate reports settings that defaults cannot repair.
func (c *Config) Validate() error {
	if m := c.Recommend.MinSimilarityOrDefault(); m < 0 || m > 1 {
		return fmt.Errorf("recommend.default_min_similarity must be within [0, 1], got %g", m)
	}
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) is below default_limit (%d)", c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}
	for name, table := range map[string]map[string]float64{
		"format_scores":    c.Scoring.FormatScores,
		"license_scores":   c.Scoring.LicenseScores,
		"frequency_scores": c.Scoring.FrequencyScores,
	} {
		for key, v := range table {
			if v < 0 || v > 1 {
				return fmt.Errorf("scoring.%s[%q] must be within [0, 1], got %g", name, key, v)
			}
		}
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

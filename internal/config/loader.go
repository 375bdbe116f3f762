package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// Load loads configuration from a YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (RANKING_TOP_N, EMBEDDINGS_BASE_URL, etc.)
//  2. YAML config file
//  3. Hardcoded defaults
//
// The configPath parameter specifies the YAML file to load. If empty, the
// default path ~/.config/rankd/config.yaml is used; a missing file is not
// an error.
//
// Environment variables use underscore separators, split on the first
// underscore into section and field:
//
//	RANKING_TOP_N          -> ranking.top_n
//	RANKING_WEIGHT_SEMANTIC -> ranking.weight_semantic
//	EMBEDDINGS_BASE_URL    -> embeddings.base_url
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "rankd", "config.yaml")
	}

	if info, err := os.Stat(configPath); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
		}

		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Override with environment variables.
	// RANKING_TOP_N -> ranking.top_n (split on first underscore only)
	if err := k.Load(env.Provider("", ".", func(s string) string {
		lower := strings.ToLower(s)
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	// Ranking defaults
	if cfg.Ranking.Model == "" {
		cfg.Ranking.Model = "all-MiniLM-L6-v2"
	}
	if cfg.Ranking.TopN == 0 {
		cfg.Ranking.TopN = 10
	}
	// An all-zero weight set means weights were not configured. A single
	// zero weight is a valid way to disable one signal.
	if cfg.Ranking.WeightSemantic == 0 && cfg.Ranking.WeightAuthority == 0 && cfg.Ranking.WeightRecency == 0 {
		cfg.Ranking.WeightSemantic = 0.5
		cfg.Ranking.WeightAuthority = 0.3
		cfg.Ranking.WeightRecency = 0.2
	}

	// Embeddings defaults
	if cfg.Embeddings.Provider == "" {
		cfg.Embeddings.Provider = "fastembed"
	}
	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = "http://localhost:8080/v1"
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = cfg.Ranking.Model
	}

	// Store defaults
	if cfg.Store.Path == "" {
		cfg.Store.Path = "~/.cache/rankd/store"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "rankd_chunks"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

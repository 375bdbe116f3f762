// Package config provides configuration loading for rankd.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates invalid configuration values.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root configuration for rankd.
type Config struct {
	Ranking    RankingConfig    `koanf:"ranking"`
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	Store      StoreConfig      `koanf:"store"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// RankingConfig controls score fusion and selection.
type RankingConfig struct {
	// Model is the embedding model identifier used for query embedding.
	Model string `koanf:"model"`
	// TopN is the default number of chunks returned per ranking call.
	TopN int `koanf:"top_n"`
	// WeightSemantic, WeightAuthority and WeightRecency are the raw fusion
	// weights. They are normalized to sum to 1.0 when the engine loads them.
	WeightSemantic  float64 `koanf:"weight_semantic"`
	WeightAuthority float64 `koanf:"weight_authority"`
	WeightRecency   float64 `koanf:"weight_recency"`
	// AuthorityDomains overrides or extends the built-in domain authority
	// table. Keys are domains ("example.org"), values are scores in [0,1].
	AuthorityDomains map[string]float64 `koanf:"authority_domains"`
}

// EmbeddingsConfig controls the embedding provider chain.
type EmbeddingsConfig struct {
	// Provider selects the primary provider: "fastembed", "remote" or "hash".
	Provider string `koanf:"provider"`
	// BaseURL is the OpenAI-compatible endpoint for the remote provider.
	BaseURL string `koanf:"base_url"`
	// Model is the embedding model name.
	Model string `koanf:"model"`
	// APIKey is the remote endpoint API key (optional for TEI).
	APIKey string `koanf:"api_key"`
	// Dimension overrides the detected embedding dimension.
	Dimension int `koanf:"dimension"`
	// CacheDir is the FastEmbed model cache directory.
	CacheDir string `koanf:"cache_dir"`
}

// StoreConfig controls the chunk store.
type StoreConfig struct {
	// Path is the on-disk location of the store.
	Path string `koanf:"path"`
	// Collection is the default collection name.
	Collection string `koanf:"collection"`
	// Compress enables gzip compression of persisted documents.
	Compress bool `koanf:"compress"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is the encoder: "json" or "console".
	Format string `koanf:"format"`
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Ranking.TopN < 0 {
		return fmt.Errorf("%w: ranking.top_n cannot be negative", ErrInvalidConfig)
	}
	if c.Ranking.WeightSemantic < 0 || c.Ranking.WeightAuthority < 0 || c.Ranking.WeightRecency < 0 {
		return fmt.Errorf("%w: ranking weights cannot be negative", ErrInvalidConfig)
	}
	for domain, score := range c.Ranking.AuthorityDomains {
		if score < 0 || score > 1 {
			return fmt.Errorf("%w: authority score for %q out of [0,1]: %v", ErrInvalidConfig, domain, score)
		}
	}

	switch c.Embeddings.Provider {
	case "", "fastembed", "remote", "hash":
	default:
		return fmt.Errorf("%w: unknown embeddings provider %q", ErrInvalidConfig, c.Embeddings.Provider)
	}
	if c.Embeddings.Dimension < 0 {
		return fmt.Errorf("%w: embeddings.dimension cannot be negative", ErrInvalidConfig)
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: unknown logging format %q", ErrInvalidConfig, c.Logging.Format)
	}

	return nil
}

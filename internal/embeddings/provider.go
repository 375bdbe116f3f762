package embeddings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrInvalidConfig indicates invalid provider configuration.
	ErrInvalidConfig = errors.New("embeddings: invalid configuration")

	// ErrEmptyInput indicates empty input text.
	ErrEmptyInput = errors.New("embeddings: empty input")

	// ErrEmbeddingFailed indicates the underlying model or service failed.
	ErrEmbeddingFailed = errors.New("embeddings: embedding generation failed")
)

// Provider is the interface for embedding providers.
type Provider interface {
	// EmbedQuery generates an embedding for a single text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// Dimension returns the embedding dimension for the current model.
	Dimension() int
	// Close releases resources held by the provider.
	Close() error
}

// ProviderConfig holds configuration for creating an embedding provider.
type ProviderConfig struct {
	// Provider is the provider type: "fastembed", "remote" or "hash".
	Provider string
	// Model is the embedding model name.
	Model string
	// BaseURL is the OpenAI-compatible endpoint (remote provider only).
	BaseURL string
	// APIKey is the endpoint API key (remote provider only, optional for TEI).
	APIKey string
	// Dimension is the embedding dimension, used by the hash fallback and
	// for remote models whose dimension cannot be detected from the name.
	Dimension int
	// CacheDir is the model cache directory (FastEmbed only).
	CacheDir string
}

// detectDimensionFromModel returns the embedding dimension for a model name.
// Falls back to 384 if the model is unknown.
func detectDimensionFromModel(model string) int {
	if dim, ok := fastEmbedModelDimension(model); ok {
		return dim
	}
	switch {
	case strings.Contains(model, "text-embedding-3-small"), strings.Contains(model, "ada-002"):
		return 1536
	case strings.Contains(model, "text-embedding-3-large"):
		return 3072
	case strings.Contains(model, "base"):
		return 768
	case strings.Contains(model, "large"):
		return 1024
	case strings.Contains(model, "small"), strings.Contains(model, "mini"), strings.Contains(model, "MiniLM"):
		return 384
	default:
		return 384
	}
}

// NewProvider creates an embedding provider chain based on the configuration.
//
// The primary provider is selected by cfg.Provider; every chain ends in the
// deterministic hash fallback, so the returned provider never fails to
// produce a vector.
func NewProvider(cfg ProviderConfig, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dimension := cfg.Dimension
	if dimension == 0 {
		dimension = detectDimensionFromModel(cfg.Model)
	}
	fallback := NewHashProvider(dimension)

	switch cfg.Provider {
	case "hash":
		return fallback, nil
	case "remote":
		remote, err := NewRemoteProvider(RemoteConfig{
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			APIKey:    cfg.APIKey,
			Dimension: dimension,
		})
		if err != nil {
			return nil, err
		}
		return NewChain(logger, fallback, remote), nil
	case "fastembed", "":
		local, err := NewFastEmbedProvider(FastEmbedConfig{
			Model:    cfg.Model,
			CacheDir: cfg.CacheDir,
		})
		if err != nil {
			// Local model unavailable (missing ONNX runtime, unknown model).
			// Degrade to the hash fallback rather than failing construction.
			logger.Warn("fastembed unavailable, using hash fallback only", zap.Error(err))
			return NewChain(logger, fallback), nil
		}
		return NewChain(logger, fallback, local), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}

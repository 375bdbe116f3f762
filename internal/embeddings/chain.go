package embeddings

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Chain tries an ordered list of providers and falls through to a
// deterministic hash fallback. EmbedQuery on a Chain is total: it always
// returns a vector and never an error, which keeps the ranking pipeline
// alive when every real provider is unreachable.
type Chain struct {
	providers []Provider
	fallback  *HashProvider
	logger    *zap.Logger
	metrics   *Metrics
}

// NewChain creates a provider chain. Providers are tried in the order
// given; the hash fallback terminates the chain and must not be nil.
func NewChain(logger *zap.Logger, fallback *HashProvider, providers ...Provider) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == nil {
		fallback = NewHashProvider(0)
	}
	return &Chain{
		providers: providers,
		fallback:  fallback,
		logger:    logger,
		metrics:   NewMetrics(logger),
	}
}

// EmbedQuery generates an embedding using the first provider that
// succeeds. Failures are logged and recorded, never returned.
func (c *Chain) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	for i, p := range c.providers {
		start := time.Now()
		vec, err := p.EmbedQuery(ctx, text)
		c.metrics.RecordGeneration(ctx, providerName(p), time.Since(start), err)
		if err == nil && len(vec) > 0 {
			return vec, nil
		}
		c.logger.Warn("embedding provider failed, trying next",
			zap.Int("provider_index", i),
			zap.String("provider", providerName(p)),
			zap.Error(err),
		)
	}

	start := time.Now()
	vec, _ := c.fallback.EmbedQuery(ctx, text)
	c.metrics.RecordGeneration(ctx, "hash", time.Since(start), nil)
	return vec, nil
}

// Dimension returns the dimension of the first provider, or of the
// fallback when the chain has no real providers.
func (c *Chain) Dimension() int {
	for _, p := range c.providers {
		if d := p.Dimension(); d > 0 {
			return d
		}
	}
	return c.fallback.Dimension()
}

// Close closes every provider in the chain. The last error wins.
func (c *Chain) Close() error {
	var err error
	for _, p := range c.providers {
		if cerr := p.Close(); cerr != nil {
			err = cerr
		}
	}
	return err
}

func providerName(p Provider) string {
	switch p.(type) {
	case *RemoteProvider:
		return "remote"
	case *FastEmbedProvider:
		return "fastembed"
	case *HashProvider:
		return "hash"
	default:
		return "custom"
	}
}

package embeddings

import (
	"context"
	"crypto/sha256"
)

// HashProvider generates deterministic embeddings from a cryptographic
// digest of the input text. The vectors carry no semantic signal, but they
// are stable across processes, which keeps ranking reproducible when no
// real embedding provider is reachable.
type HashProvider struct {
	dimension int
}

// NewHashProvider creates a hash-based provider with the given dimension.
// A non-positive dimension defaults to 384.
func NewHashProvider(dimension int) *HashProvider {
	if dimension <= 0 {
		dimension = 384
	}
	return &HashProvider{dimension: dimension}
}

// EmbedQuery generates a deterministic embedding for the text.
// Each digest byte maps into [-1, 1) and the digest is tiled until the
// configured dimension is filled. It never returns an error.
func (p *HashProvider) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))

	vec := make([]float32, p.dimension)
	for i := range vec {
		b := digest[i%len(digest)]
		vec[i] = float32(b)/128.0 - 1.0
	}
	return vec, nil
}

// Dimension returns the configured embedding dimension.
func (p *HashProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op.
func (p *HashProvider) Close() error {
	return nil
}

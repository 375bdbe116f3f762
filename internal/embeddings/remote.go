package embeddings

import (
	"context"
	"fmt"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// RemoteConfig holds configuration for the remote embedding provider.
type RemoteConfig struct {
	// BaseURL is the base URL for the embedding API.
	// For TEI: http://localhost:8080/v1
	// For OpenAI: https://api.openai.com/v1
	BaseURL string

	// Model is the embedding model to use.
	// For TEI: BAAI/bge-small-en-v1.5
	// For OpenAI: text-embedding-3-small
	Model string

	// APIKey is the API key (required for OpenAI, optional for TEI).
	APIKey string

	// Dimension is the expected embedding dimension.
	Dimension int
}

// Validate validates the configuration.
func (c RemoteConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	return nil
}

// RemoteProvider generates embeddings through an OpenAI-compatible API.
// It works for both the OpenAI embeddings API and TEI servers.
type RemoteProvider struct {
	embedder  *lcembeddings.EmbedderImpl
	config    RemoteConfig
	dimension int
}

// NewRemoteProvider creates a remote embedding provider.
func NewRemoteProvider(config RemoteConfig) (*RemoteProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	apiKey := config.APIKey
	if apiKey == "" {
		// langchaingo requires a token, use placeholder for TEI
		apiKey = "placeholder"
	}

	llm, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithModel(config.Model),
		openai.WithEmbeddingModel(config.Model),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}

	embedder, err := lcembeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	dimension := config.Dimension
	if dimension == 0 {
		dimension = detectDimensionFromModel(config.Model)
	}

	return &RemoteProvider{
		embedder:  embedder,
		config:    config,
		dimension: dimension,
	}, nil
}

// EmbedQuery generates an embedding for a single text.
func (p *RemoteProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}

	vec, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	return vec, nil
}

// Dimension returns the embedding dimension based on the configured model.
func (p *RemoteProvider) Dimension() int {
	return p.dimension
}

// Close is a no-op since the provider uses HTTP.
func (p *RemoteProvider) Close() error {
	return nil
}

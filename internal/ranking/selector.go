package ranking

import (
	"context"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/rankd/internal/embeddings"
)

// Selector orchestrates the scoring pipeline for one query: relevance and
// quality, then recency, then authority, then fusion and selection. The
// stage order is fixed for debuggability; each stage only reads the
// fields it needs and writes the fields it owns.
type Selector struct {
	embedder   embeddings.Provider
	scorer     RelevanceScorer
	aggregator RankAggregator
	logger     *zap.Logger
}

// NewSelector creates a Selector from its collaborators.
func NewSelector(embedder embeddings.Provider, scorer RelevanceScorer, aggregator RankAggregator, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		embedder:   embedder,
		scorer:     scorer,
		aggregator: aggregator,
		logger:     logger,
	}
}

// Select returns the topN most relevant chunks for the query. An empty
// query or empty chunk list short-circuits to an empty result without
// scoring.
func (s *Selector) Select(ctx context.Context, query Query, chunks []Chunk, topN int) []Chunk {
	if (query.Text == "" && len(query.Embedding) == 0) || len(chunks) == 0 {
		s.logger.Warn("empty query or chunks",
			zap.Int("chunk_count", len(chunks)),
		)
		return []Chunk{}
	}

	// Embed the query once; all chunk comparisons reuse it.
	if len(query.Embedding) == 0 {
		vec, err := s.embedder.EmbedQuery(ctx, query.Text)
		if err != nil {
			s.logger.Error("query embedding failed", zap.Error(err))
			return []Chunk{}
		}
		query.Embedding = vec
	}

	s.logger.Debug("scoring chunks", zap.Int("count", len(chunks)))
	scored := s.scorer.Score(ctx, query, chunks)

	withRecency := make([]Chunk, 0, len(scored))
	for _, chunk := range scored {
		out := chunk
		out.Metadata.RecencyScore = score(s.scorer.Recency(chunk))
		withRecency = append(withRecency, out)
	}

	withAuthority := s.aggregator.Authority(withRecency)
	finalized := s.aggregator.Finalize(withAuthority)

	return s.aggregator.Top(finalized, topN)
}

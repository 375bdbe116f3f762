package ranking

import (
	"sort"

	"go.uber.org/zap"
)

// Aggregator is the default RankAggregator implementation: authority
// scoring from the domain table, weighted fusion of all four signals,
// stable descending ordering and top-N selection.
type Aggregator struct {
	weights Weights
	table   AuthorityTable
	logger  *zap.Logger
}

// NewAggregator creates an Aggregator. A nil table uses the built-in
// domain authority table.
func NewAggregator(weights Weights, table AuthorityTable, logger *zap.Logger) *Aggregator {
	if table == nil {
		table = DefaultAuthorityTable()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		weights: weights,
		table:   table,
		logger:  logger,
	}
}

// Authority computes authority scores from each chunk's URL domain and
// source type. The input slice is not modified.
func (a *Aggregator) Authority(chunks []Chunk) []Chunk {
	result := make([]Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		authority := a.table.Score(domainFromURL(chunk.Metadata.URL))

		if chunk.Metadata.SourceType == "academic" {
			authority *= academicBoost
			if authority > 1.0 {
				authority = 1.0
			}
		}

		out := chunk
		out.Metadata.AuthorityScore = score(authority)
		result = append(result, out)
	}

	a.logger.Debug("computed authority scores", zap.Int("count", len(result)))
	return result
}

// Finalize fuses the per-signal scores into the final score:
//
//	final = (rel*wS + auth*wA + rec*wR + qual*0.1) / (wS+wA+wR+0.1)
//
// Absent individual scores default to 0.5. The input slice is not
// modified.
func (a *Aggregator) Finalize(chunks []Chunk) []Chunk {
	if len(chunks) == 0 {
		return []Chunk{}
	}

	denominator := a.weights.sum() + qualityWeight

	result := make([]Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		m := chunk.Metadata
		relevance := scoreOr(m.RelevanceScore, 0.5)
		authority := scoreOr(m.AuthorityScore, 0.5)
		recency := scoreOr(m.RecencyScore, 0.5)
		quality := scoreOr(m.QualityScore, 0.5)

		final := (relevance*a.weights.Semantic +
			authority*a.weights.Authority +
			recency*a.weights.Recency +
			quality*qualityWeight) / denominator

		out := chunk
		out.Metadata.FinalScore = score(final)
		result = append(result, out)
	}

	a.logger.Debug("calculated final scores", zap.Int("count", len(result)))
	return result
}

// Rank sorts chunks by final score descending. The sort is stable, so
// equal scores keep their original relative order. Chunks without a
// final score sort as 0.
func (a *Aggregator) Rank(chunks []Chunk) []Chunk {
	ranked := make([]Chunk, len(chunks))
	copy(ranked, chunks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreOr(ranked[i].Metadata.FinalScore, 0) > scoreOr(ranked[j].Metadata.FinalScore, 0)
	})
	return ranked
}

// Top returns the first n chunks of the ranked sequence. When n exceeds
// the population, all chunks are returned; n <= 0 returns none.
func (a *Aggregator) Top(chunks []Chunk, n int) []Chunk {
	ranked := a.Rank(chunks)
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

package ranking

import "context"

// Chunk is a scored unit of retrieved text with attached provenance
// metadata. Chunks are value types: pipeline stages copy them and return
// new values with additional metadata filled in.
type Chunk struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Metadata carries chunk provenance and, once scored, the per-signal
// score breakdown. Score fields are pointers so that "not yet scored" is
// distinguishable from a legitimate 0.0; fusion substitutes 0.5 for
// absent scores.
type Metadata struct {
	URL             string    `json:"url,omitempty"`
	Title           string    `json:"title,omitempty"`
	Authors         []string  `json:"authors,omitempty"`
	SourceType      string    `json:"source_type,omitempty"`
	PublicationDate string    `json:"publication_date,omitempty"`
	Embedding       []float32 `json:"embedding,omitempty"`

	RelevanceScore *float64 `json:"relevance_score,omitempty"`
	QualityScore   *float64 `json:"quality_score,omitempty"`
	RecencyScore   *float64 `json:"recency_score,omitempty"`
	AuthorityScore *float64 `json:"authority_score,omitempty"`
	FinalScore     *float64 `json:"final_score,omitempty"`
}

// Query is a ranking query. The embedding is computed once per ranking
// call and cached on the query value for the duration of the call.
type Query struct {
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// RankedResult is the caller-facing output of a full ranking call.
type RankedResult struct {
	RankedChunks   []Chunk `json:"ranked_chunks"`
	TotalChunks    int     `json:"total_chunks"`
	ProcessingTime string  `json:"processing_time"`
}

// RelevanceScorer scores chunks for semantic relevance, quality and
// recency against a query.
type RelevanceScorer interface {
	// Score returns new chunks with relevance_score and quality_score set.
	Score(ctx context.Context, query Query, chunks []Chunk) []Chunk
	// Recency returns the recency score for a chunk in [0,1].
	Recency(chunk Chunk) float64
}

// RankAggregator computes authority scores, fuses all signals into the
// final score, and orders and truncates the result.
type RankAggregator interface {
	// Authority returns new chunks with authority_score set.
	Authority(chunks []Chunk) []Chunk
	// Finalize returns new chunks with final_score set.
	Finalize(chunks []Chunk) []Chunk
	// Rank sorts chunks by final score descending; ties keep input order.
	Rank(chunks []Chunk) []Chunk
	// Top returns the first n chunks of the ranked sequence.
	Top(chunks []Chunk, n int) []Chunk
}

// Weights are the normalized fusion weights for the three configurable
// signals. Quality carries a fixed additional weight (see qualityWeight).
type Weights struct {
	Semantic  float64
	Authority float64
	Recency   float64
}

// qualityWeight is the fixed, non-configurable weight of the quality
// signal. It sits outside the normalized weight set, so the fusion
// denominator is 1.0 + qualityWeight.
const qualityWeight = 0.1

// NewWeights normalizes raw weights so they sum to 1.0. A non-positive
// sum falls back to the documented defaults (0.5/0.3/0.2).
func NewWeights(semantic, authority, recency float64) Weights {
	total := semantic + authority + recency
	if total <= 0 {
		return Weights{Semantic: 0.5, Authority: 0.3, Recency: 0.2}
	}
	return Weights{
		Semantic:  semantic / total,
		Authority: authority / total,
		Recency:   recency / total,
	}
}

// sum returns the total of the three normalized weights.
func (w Weights) sum() float64 {
	return w.Semantic + w.Authority + w.Recency
}

// score returns a pointer to v, for filling optional score fields.
func score(v float64) *float64 {
	return &v
}

// scoreOr returns the score value, or def when the score is absent.
func scoreOr(s *float64, def float64) float64 {
	if s == nil {
		return def
	}
	return *s
}

package ranking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/rankd/internal/embeddings"
)

// unscorableRelevance is assigned to chunks with no text and no
// embedding: present but unscorable, rather than irrelevant.
const unscorableRelevance = 0.1

// recencyWindowYears is the linear decay window; content older than this
// scores 0.
const recencyWindowYears = 5.0

// dateFormats are the accepted publication date layouts, tried in order.
var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02T15:04:05",
}

// qualityIndicators are structural terms whose presence suggests
// complete, well-organized content.
var qualityIndicators = []string{
	"introduction", "methodology", "results", "conclusion", "references",
	"abstract", "discussion", "analysis", "experiment", "findings",
}

// Scorer is the default RelevanceScorer implementation. It uses the
// embedding provider for semantic similarity and heuristics for quality
// and recency.
type Scorer struct {
	embedder embeddings.Provider
	logger   *zap.Logger
	now      func() time.Time
}

// NewScorer creates a Scorer backed by the given embedding provider.
func NewScorer(embedder embeddings.Provider, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{
		embedder: embedder,
		logger:   logger,
		now:      time.Now,
	}
}

// Score computes relevance and quality scores for each chunk against the
// query. Chunks without an embedding are embedded from their text; chunks
// with neither text nor embedding get the minimal relevance score. The
// input slice is not modified.
func (s *Scorer) Score(ctx context.Context, query Query, chunks []Chunk) []Chunk {
	if len(query.Embedding) == 0 {
		s.logger.Error("no query embedding available")
		return chunks
	}

	scored := make([]Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		embedding := chunk.Metadata.Embedding
		if len(embedding) == 0 && chunk.Text != "" {
			vec, err := s.embedder.EmbedQuery(ctx, chunk.Text)
			if err != nil {
				s.logger.Warn("chunk embedding failed", zap.Error(err))
			} else {
				embedding = vec
			}
		}

		out := chunk
		if len(embedding) == 0 {
			s.logger.Warn("no embedding for chunk", zap.String("url", chunk.Metadata.URL))
			out.Metadata.RelevanceScore = score(unscorableRelevance)
			scored = append(scored, out)
			continue
		}

		similarity := embeddings.CosineSimilarity(query.Embedding, embedding)
		if similarity < 0 {
			// Cosine lives in [-1,1]; scores are defined on [0,1].
			similarity = 0
		}

		out.Metadata.Embedding = embedding
		out.Metadata.RelevanceScore = score(similarity)
		out.Metadata.QualityScore = score(s.Quality(chunk.Text))
		scored = append(scored, out)
	}

	s.logger.Debug("scored chunks for relevance", zap.Int("count", len(scored)))
	return scored
}

// Quality assesses content quality from length and structure.
//
// The base score comes from word count: >=300 words scores 1.0, >=150
// scores 0.8, >=75 scores 0.6, anything shorter 0.4. The presence of
// structural indicator terms adds +0.2 (three or more) or +0.1 (one or
// two), capped at 1.0.
func (s *Scorer) Quality(text string) float64 {
	wordCount := len(strings.Fields(text))

	var quality float64
	switch {
	case wordCount >= 300:
		quality = 1.0
	case wordCount >= 150:
		quality = 0.8
	case wordCount >= 75:
		quality = 0.6
	default:
		quality = 0.4
	}

	lower := strings.ToLower(text)
	indicators := 0
	for _, indicator := range qualityIndicators {
		if strings.Contains(lower, indicator) {
			indicators++
		}
	}

	switch {
	case indicators >= 3:
		quality += 0.2
	case indicators >= 1:
		quality += 0.1
	}

	if quality > 1.0 {
		quality = 1.0
	}
	return quality
}

// Recency scores publication age with a linear decay over five years.
// A missing or unparseable publication date scores a neutral 0.5.
func (s *Scorer) Recency(chunk Chunk) float64 {
	dateStr := chunk.Metadata.PublicationDate
	if dateStr == "" {
		return 0.5
	}

	var published time.Time
	parsed := false
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			published = t
			parsed = true
			break
		}
	}
	if !parsed {
		s.logger.Debug("unparseable publication date", zap.String("date", dateStr))
		return 0.5
	}

	yearsOld := s.now().Sub(published).Hours() / 24 / 365
	recency := 1.0 - yearsOld/recencyWindowYears
	if recency < 0 {
		recency = 0
	}
	if recency > 1 {
		// Future-dated content counts as brand new.
		recency = 1
	}
	return recency
}

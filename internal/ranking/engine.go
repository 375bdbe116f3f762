package ranking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/rankd/internal/config"
	"github.com/fyrsmithlabs/rankd/internal/embeddings"
)

// averageTimeAlpha is the smoothing factor of the exponential moving
// average over ranking latency.
const averageTimeAlpha = 0.1

// Engine is the long-lived entry point of the ranking pipeline. It owns
// configuration, the component graph and cumulative metrics. The
// configuration is read-only after construction; the metrics counters are
// guarded by a mutex so one Engine may serve concurrent callers.
type Engine struct {
	embedder     embeddings.Provider
	selector     *Selector
	topN         int
	logger       *zap.Logger
	otel         *Metrics
	ownsEmbedder bool

	mu           sync.Mutex
	totalQueries int64
	totalChunks  int64
	averageTime  time.Duration
}

// EngineMetrics is a snapshot of the engine's running counters.
type EngineMetrics struct {
	TotalQueries int64
	TotalChunks  int64
	AverageTime  time.Duration
}

// Option customizes Engine construction, mainly to swap components in
// tests.
type Option func(*engineOptions)

type engineOptions struct {
	embedder   embeddings.Provider
	scorer     RelevanceScorer
	aggregator RankAggregator
}

// WithEmbedder supplies an embedding provider instead of building one
// from configuration. The caller keeps ownership; Close will not close it.
func WithEmbedder(p embeddings.Provider) Option {
	return func(o *engineOptions) { o.embedder = p }
}

// WithScorer supplies a RelevanceScorer implementation.
func WithScorer(s RelevanceScorer) Option {
	return func(o *engineOptions) { o.scorer = s }
}

// WithAggregator supplies a RankAggregator implementation.
func WithAggregator(a RankAggregator) Option {
	return func(o *engineOptions) { o.aggregator = a }
}

// NewEngine creates an Engine from configuration. Missing configuration
// values fall back to documented defaults; weights are normalized to sum
// to 1.0.
func NewEngine(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("ranking")

	var options engineOptions
	for _, opt := range opts {
		opt(&options)
	}

	embedder := options.embedder
	ownsEmbedder := false
	if embedder == nil {
		model := cfg.Embeddings.Model
		if model == "" {
			model = cfg.Ranking.Model
		}
		p, err := embeddings.NewProvider(embeddings.ProviderConfig{
			Provider:  cfg.Embeddings.Provider,
			Model:     model,
			BaseURL:   cfg.Embeddings.BaseURL,
			APIKey:    cfg.Embeddings.APIKey,
			Dimension: cfg.Embeddings.Dimension,
			CacheDir:  cfg.Embeddings.CacheDir,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("creating embedding provider: %w", err)
		}
		embedder = p
		ownsEmbedder = true
	}

	weights := NewWeights(cfg.Ranking.WeightSemantic, cfg.Ranking.WeightAuthority, cfg.Ranking.WeightRecency)
	table := DefaultAuthorityTable().Merge(cfg.Ranking.AuthorityDomains)

	scorer := options.scorer
	if scorer == nil {
		scorer = NewScorer(embedder, logger)
	}

	aggregator := options.aggregator
	if aggregator == nil {
		aggregator = NewAggregator(weights, table, logger)
	}

	topN := cfg.Ranking.TopN
	if topN <= 0 {
		topN = 10
	}

	return &Engine{
		embedder:     embedder,
		selector:     NewSelector(embedder, scorer, aggregator, logger),
		topN:         topN,
		logger:       logger,
		otel:         NewMetrics(logger),
		ownsEmbedder: ownsEmbedder,
	}, nil
}

// ProcessQuery prepares a query for ranking by embedding its text. An
// embedding failure is logged and leaves the embedding empty; Select will
// retry when the query is ranked.
func (e *Engine) ProcessQuery(ctx context.Context, text string) Query {
	query := Query{Text: text}

	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("query embedding failed", zap.Error(err))
		return query
	}
	query.Embedding = vec
	return query
}

// Rank scores and orders chunks against the query, returning the top
// topN (the configured default when topN <= 0). It never returns an
// error: any internal failure is logged and yields an empty result, so
// ranking cannot crash a caller's pipeline.
func (e *Engine) Rank(ctx context.Context, query Query, chunks []Chunk, topN int) (ranked []Chunk) {
	start := time.Now()
	recovered := false

	defer func() {
		if r := recover(); r != nil {
			recovered = true
			e.logger.Error("ranking failed", zap.Any("panic", r))
			ranked = []Chunk{}
		}
		elapsed := time.Since(start)
		e.recordCall(len(chunks), elapsed)
		e.otel.RecordRank(ctx, elapsed, len(chunks), recovered)
	}()

	if topN <= 0 {
		topN = e.topN
	}

	e.logger.Info("ranking chunks",
		zap.Int("chunk_count", len(chunks)),
		zap.Int("top_n", topN),
	)

	return e.selector.Select(ctx, query, chunks, topN)
}

// RankText is Rank for callers holding only raw query text.
func (e *Engine) RankText(ctx context.Context, text string, chunks []Chunk, topN int) []Chunk {
	return e.Rank(ctx, e.ProcessQuery(ctx, text), chunks, topN)
}

// ProcessAndRank runs the complete pipeline and wraps the result for the
// caller. Like Rank, it never fails; the result may be empty.
func (e *Engine) ProcessAndRank(ctx context.Context, query Query, chunks []Chunk, topN int) RankedResult {
	ranked := e.Rank(ctx, query, chunks, topN)

	e.mu.Lock()
	avg := e.averageTime
	e.mu.Unlock()

	return RankedResult{
		RankedChunks:   ranked,
		TotalChunks:    len(ranked),
		ProcessingTime: fmt.Sprintf("%.2fs", avg.Seconds()),
	}
}

// Metrics returns a snapshot of the running counters.
func (e *Engine) Metrics() EngineMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return EngineMetrics{
		TotalQueries: e.totalQueries,
		TotalChunks:  e.totalChunks,
		AverageTime:  e.averageTime,
	}
}

// Close releases the embedding provider when the engine built it.
func (e *Engine) Close() error {
	if e.ownsEmbedder {
		return e.embedder.Close()
	}
	return nil
}

// recordCall updates the cumulative counters and the latency EMA.
func (e *Engine) recordCall(chunkCount int, elapsed time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.totalQueries++
	e.totalChunks += int64(chunkCount)

	if e.averageTime == 0 {
		e.averageTime = elapsed
	} else {
		e.averageTime = time.Duration((1-averageTimeAlpha)*float64(e.averageTime) + averageTimeAlpha*float64(elapsed))
	}
}

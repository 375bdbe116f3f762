package ranking

import (
	"context"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/rankd/internal/config"
	"github.com/fyrsmithlabs/rankd/internal/embeddings"
)

func testEngineConfig() *config.Config {
	return &config.Config{
		Ranking: config.RankingConfig{
			TopN:            10,
			WeightSemantic:  0.5,
			WeightAuthority: 0.3,
			WeightRecency:   0.2,
		},
		Embeddings: config.EmbeddingsConfig{
			Provider:  "hash",
			Dimension: 64,
		},
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := NewEngine(testEngineConfig(), nil, opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestEngineProcessQuery(t *testing.T) {
	engine := newTestEngine(t)

	query := engine.ProcessQuery(context.Background(), "quantum computing")
	if query.Text != "quantum computing" {
		t.Errorf("text = %q", query.Text)
	}
	if len(query.Embedding) != 64 {
		t.Errorf("embedding len = %d, want 64", len(query.Embedding))
	}
}

func TestEngineRankEmptyChunks(t *testing.T) {
	engine := newTestEngine(t)

	ranked := engine.RankText(context.Background(), "query", nil, 0)
	if len(ranked) != 0 {
		t.Errorf("ranked %d chunks from empty input", len(ranked))
	}
}

func TestEngineRankOrdersChunks(t *testing.T) {
	engine := newTestEngine(t)

	chunks := []Chunk{
		{Text: "brief"},
		{
			Text: strings.Repeat("methodology results analysis ", 120),
			Metadata: Metadata{
				URL:        "https://arxiv.org/abs/2301.00001",
				SourceType: "academic",
			},
		},
	}

	ranked := engine.RankText(context.Background(), "methodology results", chunks, 0)
	if len(ranked) != 2 {
		t.Fatalf("len = %d, want 2", len(ranked))
	}
	for _, chunk := range ranked {
		if chunk.Metadata.FinalScore == nil {
			t.Fatal("ranked chunk missing final score")
		}
	}
	if scoreOr(ranked[0].Metadata.FinalScore, 0) < scoreOr(ranked[1].Metadata.FinalScore, 0) {
		t.Error("chunks not ordered by final score descending")
	}
}

func TestEngineDefaultTopN(t *testing.T) {
	cfg := testEngineConfig()
	cfg.Ranking.TopN = 2
	engine, err := NewEngine(cfg, nil)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	defer engine.Close()

	chunks := make([]Chunk, 5)
	for i := range chunks {
		chunks[i] = Chunk{Text: "chunk content number " + string(rune('a'+i))}
	}

	ranked := engine.RankText(context.Background(), "content", chunks, 0)
	if len(ranked) != 2 {
		t.Errorf("len = %d, want configured top_n 2", len(ranked))
	}
}

// panickingScorer triggers the engine's recovery path.
type panickingScorer struct{}

func (panickingScorer) Score(context.Context, Query, []Chunk) []Chunk {
	panic("scorer exploded")
}

func (panickingScorer) Recency(Chunk) float64 { return 0.5 }

func TestEngineRecoversFromPanic(t *testing.T) {
	engine := newTestEngine(t, WithScorer(panickingScorer{}))

	ranked := engine.RankText(context.Background(), "query", []Chunk{{Text: "chunk"}}, 0)
	if ranked == nil {
		t.Fatal("ranked is nil, want empty slice")
	}
	if len(ranked) != 0 {
		t.Errorf("len = %d, want 0", len(ranked))
	}
}

func TestEngineMetrics(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	chunks := []Chunk{{Text: "one"}, {Text: "two"}, {Text: "three"}}
	engine.RankText(ctx, "first", chunks, 0)
	engine.RankText(ctx, "second", chunks[:1], 0)

	m := engine.Metrics()
	if m.TotalQueries != 2 {
		t.Errorf("TotalQueries = %d, want 2", m.TotalQueries)
	}
	if m.TotalChunks != 4 {
		t.Errorf("TotalChunks = %d, want 4", m.TotalChunks)
	}
	if m.AverageTime <= 0 {
		t.Errorf("AverageTime = %v, want > 0", m.AverageTime)
	}
}

func TestEngineProcessAndRank(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	chunks := []Chunk{
		{Text: "quantum computing cryptography analysis"},
		{Text: "cooking recipes"},
	}

	result := engine.ProcessAndRank(ctx, engine.ProcessQuery(ctx, "quantum computing"), chunks, 0)
	if result.TotalChunks != len(result.RankedChunks) {
		t.Errorf("TotalChunks = %d, want %d", result.TotalChunks, len(result.RankedChunks))
	}
	if len(result.RankedChunks) != 2 {
		t.Errorf("len = %d, want 2", len(result.RankedChunks))
	}
	if !strings.HasSuffix(result.ProcessingTime, "s") {
		t.Errorf("ProcessingTime = %q, want seconds suffix", result.ProcessingTime)
	}
}

func TestEngineProcessAndRankEmptyInputs(t *testing.T) {
	engine := newTestEngine(t)

	result := engine.ProcessAndRank(context.Background(), Query{}, nil, 0)
	if result.TotalChunks != 0 || len(result.RankedChunks) != 0 {
		t.Errorf("got %+v, want empty result", result)
	}
}

func TestEngineWithInjectedEmbedder(t *testing.T) {
	embedder := embeddings.NewHashProvider(32)
	engine, err := NewEngine(testEngineConfig(), nil, WithEmbedder(embedder))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	defer engine.Close()

	query := engine.ProcessQuery(context.Background(), "text")
	if len(query.Embedding) != 32 {
		t.Errorf("embedding len = %d, want 32 from injected embedder", len(query.Embedding))
	}
}

package ranking

import (
	"math"
	"testing"
)

func defaultWeights() Weights {
	return NewWeights(0.5, 0.3, 0.2)
}

func TestNewWeightsNormalization(t *testing.T) {
	tests := []struct {
		name                         string
		semantic, authority, recency float64
	}{
		{"defaults", 0.5, 0.3, 0.2},
		{"unnormalized", 5, 3, 2},
		{"single signal", 1, 0, 0},
		{"uneven", 0.7, 0.9, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWeights(tt.semantic, tt.authority, tt.recency)
			if math.Abs(w.sum()-1.0) > 1e-9 {
				t.Errorf("weights sum to %v, want 1.0", w.sum())
			}
		})
	}
}

func TestNewWeightsZeroTotalFallsBack(t *testing.T) {
	w := NewWeights(0, 0, 0)
	if w.Semantic != 0.5 || w.Authority != 0.3 || w.Recency != 0.2 {
		t.Errorf("got %+v, want default weights", w)
	}
}

func TestAggregatorAuthority(t *testing.T) {
	agg := NewAggregator(defaultWeights(), nil, nil)

	tests := []struct {
		name       string
		url        string
		sourceType string
		want       float64
	}{
		{
			name: "known domain",
			url:  "https://arxiv.org/abs/2301.00001",
			want: 0.85,
		},
		{
			name:       "academic boost",
			url:        "https://arxiv.org/abs/2301.00001",
			sourceType: "academic",
			want:       0.85 * 1.1,
		},
		{
			name:       "academic boost capped",
			url:        "https://nature.com/articles/x",
			sourceType: "academic",
			want:       1.0,
		},
		{
			name: "no url defaults",
			url:  "",
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := []Chunk{{Metadata: Metadata{URL: tt.url, SourceType: tt.sourceType}}}
			out := agg.Authority(chunks)
			got := scoreOr(out[0].Metadata.AuthorityScore, -1)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("authority = %v, want %v", got, tt.want)
			}
			if chunks[0].Metadata.AuthorityScore != nil {
				t.Error("input chunk was mutated")
			}
		})
	}
}

func TestAggregatorFinalize(t *testing.T) {
	agg := NewAggregator(defaultWeights(), nil, nil)

	chunks := []Chunk{{
		Metadata: Metadata{
			RelevanceScore: score(0.9),
			AuthorityScore: score(0.8),
			RecencyScore:   score(0.7),
			QualityScore:   score(0.6),
		},
	}}

	out := agg.Finalize(chunks)
	want := (0.9*0.5 + 0.8*0.3 + 0.7*0.2 + 0.6*0.1) / 1.1
	got := scoreOr(out[0].Metadata.FinalScore, -1)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("final = %v, want %v", got, want)
	}
}

func TestAggregatorFinalizeMissingScoresDefault(t *testing.T) {
	agg := NewAggregator(defaultWeights(), nil, nil)

	out := agg.Finalize([]Chunk{{Text: "unscored"}})
	// All signals default to 0.5, so the fusion is exactly 0.5.
	got := scoreOr(out[0].Metadata.FinalScore, -1)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("final = %v, want 0.5", got)
	}
}

func TestAggregatorFinalScoreBounds(t *testing.T) {
	agg := NewAggregator(defaultWeights(), nil, nil)

	extremes := []float64{0, 1}
	for _, r := range extremes {
		for _, a := range extremes {
			for _, rc := range extremes {
				for _, q := range extremes {
					out := agg.Finalize([]Chunk{{
						Metadata: Metadata{
							RelevanceScore: score(r),
							AuthorityScore: score(a),
							RecencyScore:   score(rc),
							QualityScore:   score(q),
						},
					}})
					final := scoreOr(out[0].Metadata.FinalScore, -1)
					if final < 0 || final > 1 {
						t.Errorf("final score %v out of [0,1] for (%v,%v,%v,%v)", final, r, a, rc, q)
					}
				}
			}
		}
	}
}

func TestAggregatorFinalizeEmpty(t *testing.T) {
	agg := NewAggregator(defaultWeights(), nil, nil)
	if out := agg.Finalize(nil); len(out) != 0 {
		t.Errorf("Finalize(nil) = %v, want empty", out)
	}
}

func TestAggregatorRankStable(t *testing.T) {
	agg := NewAggregator(defaultWeights(), nil, nil)

	chunks := []Chunk{
		{Text: "b", Metadata: Metadata{FinalScore: score(0.5)}},
		{Text: "a", Metadata: Metadata{FinalScore: score(0.9)}},
		{Text: "c", Metadata: Metadata{FinalScore: score(0.5)}},
		{Text: "d", Metadata: Metadata{FinalScore: score(0.1)}},
	}

	ranked := agg.Rank(chunks)
	wantOrder := []string{"a", "b", "c", "d"}
	for i, want := range wantOrder {
		if ranked[i].Text != want {
			t.Errorf("position %d = %q, want %q (ties must keep input order)", i, ranked[i].Text, want)
		}
	}

	// Idempotence: re-ranking an already ranked list yields the same order.
	again := agg.Rank(ranked)
	for i := range ranked {
		if again[i].Text != ranked[i].Text {
			t.Errorf("re-rank changed order at %d: %q != %q", i, again[i].Text, ranked[i].Text)
		}
	}

	// The input order is untouched.
	if chunks[0].Text != "b" {
		t.Error("Rank mutated its input")
	}
}

func TestAggregatorTop(t *testing.T) {
	agg := NewAggregator(defaultWeights(), nil, nil)

	chunks := []Chunk{
		{Text: "low", Metadata: Metadata{FinalScore: score(0.2)}},
		{Text: "high", Metadata: Metadata{FinalScore: score(0.8)}},
		{Text: "mid", Metadata: Metadata{FinalScore: score(0.5)}},
	}

	tests := []struct {
		name      string
		n         int
		wantLen   int
		wantFirst string
	}{
		{"subset", 2, 2, "high"},
		{"exceeds population", 10, 3, "high"},
		{"zero", 0, 0, ""},
		{"negative", -1, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := agg.Top(chunks, tt.n)
			if len(top) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(top), tt.wantLen)
			}
			if tt.wantLen > 0 && top[0].Text != tt.wantFirst {
				t.Errorf("first = %q, want %q", top[0].Text, tt.wantFirst)
			}
		})
	}
}

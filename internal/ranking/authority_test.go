package ranking

import (
	"math"
	"testing"
)

func TestAuthorityTableScore(t *testing.T) {
	table := DefaultAuthorityTable()

	tests := []struct {
		name   string
		domain string
		want   float64
	}{
		{
			name:   "exact match",
			domain: "arxiv.org",
			want:   0.85,
		},
		{
			name:   "exact match beats tld suffix",
			domain: "nature.com",
			want:   0.95,
		},
		{
			name:   "subdomain suffix match is discounted",
			domain: "export.arxiv.org",
			want:   0.85 * 0.9,
		},
		{
			name:   "most specific suffix wins",
			domain: "www2.pubmed.ncbi.nlm.nih.gov",
			want:   0.90 * 0.9,
		},
		{
			name:   "edu zone",
			domain: "cs.stanford.edu",
			want:   0.80 * 0.9,
		},
		{
			name:   "generic com",
			domain: "randomblog.com",
			want:   0.60 * 0.9,
		},
		{
			name:   "unknown tld defaults",
			domain: "example.dev",
			want:   0.5,
		},
		{
			name:   "empty domain defaults",
			domain: "",
			want:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Score(tt.domain); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score(%q) = %v, want %v", tt.domain, got, tt.want)
			}
		})
	}
}

func TestAuthorityTableMerge(t *testing.T) {
	table := DefaultAuthorityTable().Merge(map[string]float64{
		"arxiv.org":  0.99,
		"custom.dev": 0.7,
	})

	if got := table.Score("arxiv.org"); got != 0.99 {
		t.Errorf("overridden score = %v, want 0.99", got)
	}
	if got := table.Score("custom.dev"); got != 0.7 {
		t.Errorf("added score = %v, want 0.7", got)
	}
	// The base table is untouched.
	if got := DefaultAuthorityTable().Score("arxiv.org"); got != 0.85 {
		t.Errorf("default table mutated: %v", got)
	}
}

func TestDomainFromURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://arxiv.org/abs/2301.00001", "arxiv.org"},
		{"https://www.nature.com/articles/x", "nature.com"},
		{"http://cs.stanford.edu/paper", "cs.stanford.edu"},
		{"not a url at all", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := domainFromURL(tt.raw); got != tt.want {
			t.Errorf("domainFromURL(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

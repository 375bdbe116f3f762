package ranking

import (
	"net/url"
	"sort"
	"strings"
)

// AuthorityTable maps known domains to credibility scores in [0,1].
// Bare TLD entries ("edu", "gov") act as suffix rules for whole zones.
type AuthorityTable map[string]float64

// defaultAuthorityScore is used when a chunk's domain matches nothing in
// the table, or the chunk has no usable URL.
const defaultAuthorityScore = 0.5

// suffixMatchFactor discounts suffix matches (subdomains of a known
// domain) relative to exact matches.
const suffixMatchFactor = 0.9

// academicBoost multiplies the authority of chunks whose source_type is
// "academic", capped at 1.0.
const academicBoost = 1.1

// DefaultAuthorityTable returns the built-in domain authority table.
// Callers may copy and adjust it, or supply overrides via configuration.
func DefaultAuthorityTable() AuthorityTable {
	return AuthorityTable{
		"arxiv.org":               0.85,
		"scholar.google.com":      0.80,
		"pubmed.ncbi.nlm.nih.gov": 0.90,
		"nature.com":              0.95,
		"science.org":             0.95,
		"ieee.org":                0.85,
		"acm.org":                 0.85,
		"nih.gov":                 0.90,
		"edu":                     0.80,
		"gov":                     0.85,
		"org":                     0.75,
		"com":                     0.60,
	}
}

// Merge returns a copy of the table with the overrides applied.
func (t AuthorityTable) Merge(overrides map[string]float64) AuthorityTable {
	merged := make(AuthorityTable, len(t)+len(overrides))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// Score returns the authority score for a domain. An exact table match
// uses the table value; a suffix match (subdomain of a known entry) uses
// a discounted value, most specific entry first; no match scores 0.5.
func (t AuthorityTable) Score(domain string) float64 {
	if domain == "" {
		return defaultAuthorityScore
	}
	if v, ok := t[domain]; ok {
		return v
	}

	// Suffix entries are checked longest first so the most specific rule
	// wins deterministically regardless of map order.
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		if strings.HasSuffix(domain, "."+k) {
			return t[k] * suffixMatchFactor
		}
	}
	return defaultAuthorityScore
}

// domainFromURL extracts the host from a chunk URL, stripping a leading
// "www." prefix. Unparseable or schemeless URLs yield "".
func domainFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	return strings.TrimPrefix(host, "www.")
}

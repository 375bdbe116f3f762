// Package ranking implements multi-signal content ranking.
//
// Retrieved text chunks are scored on four signals - semantic relevance,
// source authority, content recency and intrinsic quality - and fused into
// a single final score used to order and select the top results for a
// query. Every pipeline stage returns new chunk values with merged
// metadata; chunks are never mutated in place, so stages cannot alias each
// other's state.
//
// The pipeline is best-effort by design: missing metadata degrades to
// neutral scores, an unreachable embedding provider degrades to a
// deterministic hash embedding, and the engine boundary converts any
// internal failure into an empty result instead of an error.
package ranking

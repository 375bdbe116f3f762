// Package embeddings provides embedding generation via multiple providers.
//
// Supports a remote OpenAI-compatible provider (including TEI), FastEmbed
// (local ONNX) and a deterministic hash fallback. Providers are composed
// into an ordered fallback chain so that embedding a text always yields a
// vector, even when no model or network is available.
package embeddings

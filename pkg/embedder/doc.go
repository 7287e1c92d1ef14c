// Package embedder provides text embedding clients and the in-memory
// vector index used for semantic retrieval.
//
// The Client interface abstracts the embedding provider; the OpenAI
// implementation covers any OpenAI-compatible endpoint. Index keeps at
// most one vector per artifact id and skips recomputation when the text
// has not changed.
package embedder

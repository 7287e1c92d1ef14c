// Package graph implements the in-memory knowledge-graph store: a
// directed, typed multigraph of development artifacts with natural-key
// deduplication, idempotent edges, bounded breadth-first traversal, and
// provenanced status mutations.
//
// The store is safe for concurrent use. Reads take a shared lock;
// queries never hold locks across external calls.
package graph

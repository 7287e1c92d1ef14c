// Package query answers natural-language questions over the knowledge
// graph. Retrieval is hybrid: vector search over the embedding index
// seeds a candidate set, one hop of graph expansion pulls in the
// connected context, and the synthesis capability grounds the final
// answer in the retrieved artifacts only.
package query

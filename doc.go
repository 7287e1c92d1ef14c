// Package devgraph builds a knowledge graph from software-development
// conversations and documents, answers questions over it with hybrid
// retrieval, and evaluates the downstream impact of changes.
//
// Meetings, requirement documents and blueprint documents enter as
// normalized records. Extraction lifts decisions, action items,
// blockers and topics out of the body text; the graph links them to
// their source, to the people involved, and to the documents and work
// orders they depend on. Queries combine vector search with graph
// expansion and ground their answers in the retrieved artifacts only.
// Ripple analysis walks the dependency chains outward from a changed
// artifact and grades the impact on everything it reaches.
package devgraph

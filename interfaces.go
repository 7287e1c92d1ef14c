package devgraph

import (
	"context"

	"github.com/devgraph-ai/devgraph/pkg/graph"
	"github.com/devgraph-ai/devgraph/pkg/ingest"
	"github.com/devgraph-ai/devgraph/pkg/query"
	"github.com/devgraph-ai/devgraph/pkg/ripple"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

// This file defines focused interfaces composed into the main DevGraph
// interface. Consumers should depend on the smallest interface that
// meets their needs.

// Ingestor loads meeting and document records into the graph.
type Ingestor interface {
	// Ingest merges one record into the graph and index.
	Ingest(ctx context.Context, record *types.IngestRecord) (*ingest.Result, error)

	// IngestBatch merges independent records concurrently, isolating
	// per-record failures.
	IngestBatch(ctx context.Context, records []*types.IngestRecord) *ingest.BatchResult
}

// Querier answers questions over the graph.
type Querier interface {
	// Query runs hybrid retrieval and grounded synthesis.
	Query(ctx context.Context, question string) (*query.Result, error)
}

// RippleAnalyzer evaluates change impact.
type RippleAnalyzer interface {
	// DetectRipple judges every artifact downstream of a change.
	DetectRipple(ctx context.Context, changedID, change string) (*ripple.Report, error)
}

// GraphReader provides read access to artifacts and their surroundings.
type GraphReader interface {
	// GetArtifact retrieves one artifact by id.
	GetArtifact(id string) (*types.Artifact, error)

	// Neighbors lists artifacts adjacent to id.
	Neighbors(id string, opts graph.NeighborOptions) ([]*types.Artifact, error)

	// Resolve maps a natural key to an artifact id, if present.
	Resolve(naturalKey string) (string, bool)

	// Stats summarizes the graph.
	Stats() graph.Stats
}

// GraphWriter provides direct structural writes, used by upstream
// document import to lay down dependency chains that extraction never
// produces.
type GraphWriter interface {
	// AddArtifact inserts or deduplicates an artifact.
	AddArtifact(ctx context.Context, artifact *types.Artifact) (string, error)

	// AddRelationship adds a typed edge between existing artifacts.
	AddRelationship(fromID, toID string, kind types.RelationKind) error
}

// DevGraph is the full client surface.
type DevGraph interface {
	Ingestor
	Querier
	RippleAnalyzer
	GraphReader
	GraphWriter

	// Close releases the underlying model clients.
	Close() error
}

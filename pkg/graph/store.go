package graph

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devgraph-ai/devgraph/pkg/types"
)

// idNamespace seeds deterministic artifact ids. Deriving the id from
// the natural key keeps re-ingestion of the same source from minting
// duplicate nodes.
var idNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// DeterministicID derives a stable artifact id from a natural key.
func DeterministicID(naturalKey string) string {
	return uuid.NewSHA1(idNamespace, []byte(naturalKey)).String()
}

// Store owns the artifact multigraph. All exported methods are safe for
// concurrent use.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*types.Artifact
	byKey map[string]string // natural key -> id
	// adjacency: from -> kind -> to -> edge, and the incoming mirror.
	out map[string]map[types.RelationKind]map[string]*types.Relationship
	in  map[string]map[types.RelationKind]map[string]*types.Relationship

	edgeCount int
	clock     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		nodes: make(map[string]*types.Artifact),
		byKey: make(map[string]string),
		out:   make(map[string]map[types.RelationKind]map[string]*types.Relationship),
		in:    make(map[string]map[types.RelationKind]map[string]*types.Relationship),
		clock: time.Now,
	}
}

// UpsertArtifact inserts the artifact or, when one with the same natural
// key exists, returns the existing id without duplication. Mutable
// status fields follow last-write-wins under concurrent upserts of the
// same key; the provenance of the write is the incoming artifact's
// StatusSource.
func (s *Store) UpsertArtifact(a *types.Artifact) (string, error) {
	if a == nil {
		return "", &types.ValidationError{Field: "artifact", Reason: "artifact is nil"}
	}
	if err := a.Validate(); err != nil {
		return "", err
	}

	key := a.NaturalKey()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byKey[key]; ok {
		node := s.nodes[existing]
		if a.Kind == types.KindActionItem && a.Status != "" {
			node.Status = a.Status
			node.StatusSource = a.StatusSource
		}
		if a.Kind == types.KindBlocker && a.ResolvedAt != nil {
			node.ResolvedAt = a.ResolvedAt
		}
		return existing, nil
	}

	stored := *a
	if stored.ID == "" {
		stored.ID = DeterministicID(key)
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = s.clock()
	}
	if stored.Kind == types.KindActionItem && stored.Status == "" {
		stored.Status = types.ActionOpen
	}
	stored.Confidence = clampConfidence(stored.Confidence)

	s.nodes[stored.ID] = &stored
	s.byKey[key] = stored.ID
	return stored.ID, nil
}

// AddRelationship adds a directed typed edge. Re-adding an edge of the
// same kind between the same ordered pair is a no-op. Edges of
// dependency kinds are rejected when they would close a cycle.
func (s *Store) AddRelationship(fromID, toID string, kind types.RelationKind) error {
	if !kind.Valid() {
		return &types.ValidationError{Field: "kind", Reason: "unrecognized relation kind " + string(kind)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[fromID]; !ok {
		return fmt.Errorf("from %q: %w", fromID, types.ErrReferenceNotFound)
	}
	if _, ok := s.nodes[toID]; !ok {
		return fmt.Errorf("to %q: %w", toID, types.ErrReferenceNotFound)
	}

	if byKind := s.out[fromID]; byKind != nil {
		if _, dup := byKind[kind][toID]; dup {
			return nil
		}
	}

	if kind.IsDependency() {
		if fromID == toID || s.reachableLocked(toID, fromID, types.DependencyKinds) {
			return fmt.Errorf("%s -> %s via %s: %w", fromID, toID, kind, types.ErrCyclicDependency)
		}
	}

	edge := &types.Relationship{FromID: fromID, ToID: toID, Kind: kind, CreatedAt: s.clock()}
	addEdge(s.out, fromID, kind, toID, edge)
	addEdge(s.in, toID, kind, fromID, edge)
	s.edgeCount++
	return nil
}

// Get returns a copy of the artifact.
func (s *Store) Get(id string) (*types.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", id, types.ErrNotFound)
	}
	cp := *node
	return &cp, nil
}

// Resolve maps a natural key to an artifact id, if present.
func (s *Store) Resolve(naturalKey string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[naturalKey]
	return id, ok
}

// UpdateActionStatus mutates an action item's status. The write is
// provenanced by the meeting that reported it; conflicting reports are
// applied in ingestion order, last write wins.
func (s *Store) UpdateActionStatus(id string, status types.ActionStatus, meetingID string) error {
	if !status.Valid() {
		return &types.ValidationError{Field: "status", Reason: "unrecognized status " + string(status)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("action item %q: %w", id, types.ErrNotFound)
	}
	if node.Kind != types.KindActionItem {
		return &types.ValidationError{Field: "id", Reason: "status updates apply to action items, got " + string(node.Kind)}
	}
	if _, ok := s.nodes[meetingID]; !ok {
		return fmt.Errorf("reporting meeting %q: %w", meetingID, types.ErrReferenceNotFound)
	}

	node.Status = status
	node.StatusSource = meetingID
	return nil
}

// ResolveBlocker marks a blocker resolved, provenanced by the meeting
// that reported the resolution.
func (s *Store) ResolveBlocker(id string, resolvedAt time.Time, meetingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("blocker %q: %w", id, types.ErrNotFound)
	}
	if node.Kind != types.KindBlocker {
		return &types.ValidationError{Field: "id", Reason: "resolution applies to blockers, got " + string(node.Kind)}
	}
	if _, ok := s.nodes[meetingID]; !ok {
		return fmt.Errorf("reporting meeting %q: %w", meetingID, types.ErrReferenceNotFound)
	}

	at := resolvedAt
	node.ResolvedAt = &at
	node.StatusSource = meetingID
	return nil
}

// Stats summarizes the graph.
type Stats struct {
	Artifacts     map[types.Kind]int `json:"artifacts"`
	TotalNodes    int                `json:"total_nodes"`
	Relationships int                `json:"relationships"`
}

// Stats returns counts by kind.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byKind := make(map[types.Kind]int)
	for _, node := range s.nodes {
		byKind[node.Kind]++
	}
	return Stats{Artifacts: byKind, TotalNodes: len(s.nodes), Relationships: s.edgeCount}
}

func addEdge(adj map[string]map[types.RelationKind]map[string]*types.Relationship, a string, kind types.RelationKind, b string, edge *types.Relationship) {
	byKind, ok := adj[a]
	if !ok {
		byKind = make(map[types.RelationKind]map[string]*types.Relationship)
		adj[a] = byKind
	}
	peers, ok := byKind[kind]
	if !ok {
		peers = make(map[string]*types.Relationship)
		byKind[kind] = peers
	}
	peers[b] = edge
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

package graph

import (
	"fmt"
	"sort"

	"github.com/devgraph-ai/devgraph/pkg/types"
)

// NeighborOptions constrain a Neighbors query. Zero value means all
// relation kinds, outgoing direction, unbounded.
type NeighborOptions struct {
	Kinds     []types.RelationKind
	Direction types.Direction
	// Limit caps the number of returned artifacts; 0 means unbounded.
	Limit int
}

// Visit is one node discovered during traversal, with its BFS distance
// from the start node.
type Visit struct {
	Artifact *types.Artifact
	Depth    int
}

// Neighbors returns the artifacts adjacent to id, filtered by relation
// kind and direction. Results are sorted by id for determinism.
func (s *Store) Neighbors(id string, opts NeighborOptions) ([]*types.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[id]; !ok {
		return nil, fmt.Errorf("neighbors of %q: %w", id, types.ErrNotFound)
	}

	seen := make(map[string]bool)
	var ids []string

	collect := func(adj map[string]map[types.RelationKind]map[string]*types.Relationship) {
		for kind, peers := range adj[id] {
			if !kindSelected(kind, opts.Kinds) {
				continue
			}
			for peer := range peers {
				if !seen[peer] {
					seen[peer] = true
					ids = append(ids, peer)
				}
			}
		}
	}

	switch opts.Direction {
	case types.DirectionOutgoing:
		collect(s.out)
	case types.DirectionIncoming:
		collect(s.in)
	case types.DirectionBoth:
		collect(s.out)
		collect(s.in)
	}

	sort.Strings(ids)
	if opts.Limit > 0 && len(ids) > opts.Limit {
		ids = ids[:opts.Limit]
	}

	result := make([]*types.Artifact, 0, len(ids))
	for _, nid := range ids {
		cp := *s.nodes[nid]
		result = append(result, &cp)
	}
	return result, nil
}

// Traverse walks breadth-first from startID along the given relation
// kinds, up to maxHops. Each reachable node is visited exactly once, so
// traversal terminates on cyclic graphs. Nodes are returned in
// discovery order; the start node itself is excluded.
func (s *Store) Traverse(startID string, kinds []types.RelationKind, maxHops int) ([]*types.Artifact, error) {
	visits, err := s.Reach(startID, kinds, maxHops)
	if err != nil {
		return nil, err
	}
	result := make([]*types.Artifact, len(visits))
	for i, v := range visits {
		result[i] = v.Artifact
	}
	return result, nil
}

// Reach is Traverse with per-node BFS distance, which ripple detection
// uses to rank closer impacts first.
func (s *Store) Reach(startID string, kinds []types.RelationKind, maxHops int) ([]Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[startID]; !ok {
		return nil, fmt.Errorf("traverse from %q: %w", startID, types.ErrNotFound)
	}

	type frontier struct {
		id    string
		depth int
	}

	visited := map[string]bool{startID: true}
	queue := []frontier{{startID, 0}}
	var visits []Visit

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.id != startID {
			cp := *s.nodes[current.id]
			visits = append(visits, Visit{Artifact: &cp, Depth: current.depth})
		}
		if maxHops > 0 && current.depth >= maxHops {
			continue
		}

		for _, next := range s.successorsLocked(current.id, kinds) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, frontier{next, current.depth + 1})
			}
		}
	}

	return visits, nil
}

// successorsLocked returns outgoing peers of id along kinds, sorted for
// deterministic discovery order. Caller holds at least a read lock.
func (s *Store) successorsLocked(id string, kinds []types.RelationKind) []string {
	var peers []string
	for kind, targets := range s.out[id] {
		if !kindSelected(kind, kinds) {
			continue
		}
		for peer := range targets {
			peers = append(peers, peer)
		}
	}
	sort.Strings(peers)
	return peers
}

// reachableLocked reports whether target is reachable from start along
// the given kinds. Used for cycle rejection; caller holds the write lock.
func (s *Store) reachableLocked(start, target string, kinds []types.RelationKind) bool {
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == target {
			return true
		}
		for _, next := range s.successorsLocked(current, kinds) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

func kindSelected(kind types.RelationKind, kinds []types.RelationKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

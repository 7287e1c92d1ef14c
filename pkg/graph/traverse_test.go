package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/devgraph-ai/devgraph/pkg/types"
)

// chainFixture builds doc -> wo-0 -> wo-1 -> wo-2 over dependency edges
// plus a RELATES_TO back-edge from wo-2 to doc, forming a cycle for the
// termination test.
func chainFixture(t *testing.T) (*Store, string, []string) {
	t.Helper()
	s := NewStore()
	doc, err := s.UpsertArtifact(&types.Artifact{Kind: types.KindRequirementDoc, Text: "auth requirements"})
	if err != nil {
		t.Fatal(err)
	}

	prev := doc
	var orders []string
	for i := 0; i < 3; i++ {
		wo, err := s.UpsertArtifact(&types.Artifact{
			Kind: types.KindWorkOrder, Text: fmt.Sprintf("work order %d", i), SourceRef: doc,
		})
		if err != nil {
			t.Fatal(err)
		}
		kind := types.RelationImplementedBy
		if i > 0 {
			kind = types.RelationBrokenInto
		}
		if err := s.AddRelationship(prev, wo, kind); err != nil {
			t.Fatal(err)
		}
		orders = append(orders, wo)
		prev = wo
	}

	if err := s.AddRelationship(orders[2], doc, types.RelationRelatesTo); err != nil {
		t.Fatal(err)
	}
	return s, doc, orders
}

func TestTraverseTerminatesOnCycle(t *testing.T) {
	s, doc, orders := chainFixture(t)

	got, err := s.Traverse(doc, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(orders) {
		t.Fatalf("visited %d nodes, want %d", len(got), len(orders))
	}

	seen := make(map[string]int)
	for _, a := range got {
		seen[a.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("node %s visited %d times", id, n)
		}
	}
}

func TestTraverseRespectsMaxHops(t *testing.T) {
	s, doc, _ := chainFixture(t)

	got, err := s.Traverse(doc, types.DependencyKinds, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("one hop reached %d nodes, want 1", len(got))
	}
}

func TestReachDepths(t *testing.T) {
	s, doc, orders := chainFixture(t)

	visits, err := s.Reach(doc, types.DependencyKinds, 5)
	if err != nil {
		t.Fatal(err)
	}
	depths := make(map[string]int)
	for _, v := range visits {
		depths[v.Artifact.ID] = v.Depth
	}
	for i, wo := range orders {
		if depths[wo] != i+1 {
			t.Errorf("depth of %s = %d, want %d", wo, depths[wo], i+1)
		}
	}
}

func TestTraverseMissingStart(t *testing.T) {
	s := NewStore()
	_, err := s.Traverse("ghost", nil, 3)
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNeighborsDirections(t *testing.T) {
	s := NewStore()
	m, _ := s.UpsertArtifact(&types.Artifact{ID: "m-1", Kind: types.KindMeeting, Text: "standup"})
	d, _ := s.UpsertArtifact(&types.Artifact{Kind: types.KindDecision, Text: "use OAuth", SourceRef: m})
	p, _ := s.UpsertArtifact(&types.Artifact{Kind: types.KindPerson, Name: "Mike"})

	if err := s.AddRelationship(m, d, types.RelationContains); err != nil {
		t.Fatal(err)
	}
	if err := s.AddRelationship(d, p, types.RelationMadeBy); err != nil {
		t.Fatal(err)
	}

	out, err := s.Neighbors(d, NeighborOptions{Direction: types.DirectionOutgoing})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != p {
		t.Errorf("outgoing of decision = %v", ids(out))
	}

	in, err := s.Neighbors(d, NeighborOptions{Direction: types.DirectionIncoming})
	if err != nil {
		t.Fatal(err)
	}
	if len(in) != 1 || in[0].ID != m {
		t.Errorf("incoming of decision = %v", ids(in))
	}

	both, err := s.Neighbors(d, NeighborOptions{Direction: types.DirectionBoth})
	if err != nil {
		t.Fatal(err)
	}
	if len(both) != 2 {
		t.Errorf("both directions = %v", ids(both))
	}

	filtered, err := s.Neighbors(d, NeighborOptions{
		Kinds:     []types.RelationKind{types.RelationMadeBy},
		Direction: types.DirectionBoth,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(filtered) != 1 || filtered[0].ID != p {
		t.Errorf("MADE_BY filter = %v", ids(filtered))
	}

	limited, err := s.Neighbors(d, NeighborOptions{Direction: types.DirectionBoth, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d", len(limited))
	}
}

func ids(arts []*types.Artifact) []string {
	out := make([]string, len(arts))
	for i, a := range arts {
		out[i] = a.ID
	}
	return out
}

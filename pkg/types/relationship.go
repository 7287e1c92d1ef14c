package types

import "time"

// RelationKind labels a directed edge between two artifacts.
type RelationKind string

const (
	RelationContains      RelationKind = "CONTAINS"
	RelationDiscusses     RelationKind = "DISCUSSES"
	RelationMadeBy        RelationKind = "MADE_BY"
	RelationAssignedTo    RelationKind = "ASSIGNED_TO"
	RelationBlockedBy     RelationKind = "BLOCKED_BY"
	RelationRelatesTo     RelationKind = "RELATES_TO"
	RelationImplementedBy RelationKind = "IMPLEMENTED_BY"
	RelationBrokenInto    RelationKind = "BROKEN_INTO"
	RelationFollowsUp     RelationKind = "FOLLOWS_UP"
	RelationSupersedes    RelationKind = "SUPERSEDES"
)

// Valid reports whether k is a recognized relation kind.
func (k RelationKind) Valid() bool {
	switch k {
	case RelationContains, RelationDiscusses, RelationMadeBy, RelationAssignedTo,
		RelationBlockedBy, RelationRelatesTo, RelationImplementedBy,
		RelationBrokenInto, RelationFollowsUp, RelationSupersedes:
		return true
	}
	return false
}

// DependencyKinds are the relation kinds that form the change-impact
// chains. Chains over these kinds must stay acyclic; ripple traversal
// follows them outward.
var DependencyKinds = []RelationKind{
	RelationImplementedBy,
	RelationBrokenInto,
	RelationFollowsUp,
}

// IsDependency reports whether k participates in acyclic dependency chains.
func (k RelationKind) IsDependency() bool {
	for _, d := range DependencyKinds {
		if k == d {
			return true
		}
	}
	return false
}

// Relationship is a directed, typed edge. Multiple edges of different
// kinds may exist between the same ordered pair; duplicates of the same
// kind are collapsed on insert.
type Relationship struct {
	FromID    string       `json:"from_id"`
	ToID      string       `json:"to_id"`
	Kind      RelationKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}

// Direction selects edge orientation for neighbor queries.
type Direction int

const (
	DirectionOutgoing Direction = iota
	DirectionIncoming
	DirectionBoth
)

package types

import (
	"strings"
	"time"
)

// Kind discriminates artifact node types in the knowledge graph.
type Kind string

const (
	KindMeeting        Kind = "meeting"
	KindDecision       Kind = "decision"
	KindActionItem     Kind = "action_item"
	KindBlocker        Kind = "blocker"
	KindTopic          Kind = "topic"
	KindPerson         Kind = "person"
	KindRequirementDoc Kind = "requirement_doc"
	KindBlueprintDoc   Kind = "blueprint_doc"
	KindWorkOrder      Kind = "work_order"
)

// Valid reports whether k is a recognized artifact kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMeeting, KindDecision, KindActionItem, KindBlocker, KindTopic,
		KindPerson, KindRequirementDoc, KindBlueprintDoc, KindWorkOrder:
		return true
	}
	return false
}

// ActionStatus is the lifecycle status of an action item.
type ActionStatus string

const (
	ActionOpen    ActionStatus = "open"
	ActionBlocked ActionStatus = "blocked"
	ActionDone    ActionStatus = "done"
)

// Valid reports whether s is a recognized action status.
func (s ActionStatus) Valid() bool {
	switch s {
	case ActionOpen, ActionBlocked, ActionDone:
		return true
	}
	return false
}

// Artifact is a typed node in the knowledge graph. Fields other than
// Status, Confidence, ResolvedAt and the StatusSource audit trail are
// immutable after creation.
type Artifact struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	// Confidence comes from extraction, clamped into [0, 1].
	Confidence float64 `json:"confidence"`
	// SourceRef is the id of the meeting or document this artifact was
	// extracted from. Empty only for root documents and meetings.
	SourceRef string `json:"source_ref,omitempty"`

	// Person fields.
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`

	// ActionItem fields.
	Assignee string       `json:"assignee,omitempty"`
	Status   ActionStatus `json:"status,omitempty"`
	// StatusSource is the meeting that reported the current status.
	StatusSource string `json:"status_source,omitempty"`

	// Blocker fields.
	Severity   string     `json:"severity,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Validate checks the fields required of every artifact.
func (a *Artifact) Validate() error {
	if !a.Kind.Valid() {
		return &ValidationError{Field: "kind", Reason: "unrecognized kind " + string(a.Kind)}
	}
	if a.Kind == KindPerson {
		if strings.TrimSpace(a.Name) == "" {
			return &ValidationError{Field: "name", Reason: "person requires a name"}
		}
		return nil
	}
	if strings.TrimSpace(a.Text) == "" {
		return &ValidationError{Field: "text", Reason: "text cannot be empty"}
	}
	if a.Kind == KindActionItem && a.Status != "" && !a.Status.Valid() {
		return &ValidationError{Field: "status", Reason: "unrecognized status " + string(a.Status)}
	}
	return nil
}

// IsRoot reports whether the artifact is a provenance root: meetings and
// upstream documents carry no source_ref of their own.
func (a *Artifact) IsRoot() bool {
	switch a.Kind {
	case KindMeeting, KindRequirementDoc, KindBlueprintDoc:
		return true
	}
	return false
}

// NormalizeName produces the natural key used to deduplicate Person
// nodes: lowercase, trimmed, internal whitespace collapsed. Matching is
// exact on this key; there is no fuzzy threshold.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NaturalKey returns the field combination that decides whether an
// incoming record duplicates an existing node. Persons key on the
// normalized name alone so mentions across meetings merge.
func (a *Artifact) NaturalKey() string {
	if a.Kind == KindPerson {
		return string(KindPerson) + "|" + NormalizeName(a.Name)
	}
	return string(a.Kind) + "|" + NormalizeName(a.Text) + "|" + a.SourceRef
}

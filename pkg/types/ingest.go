package types

import (
	"strings"
	"time"
)

// IngestRecord is the normalized input for one meeting or document,
// regardless of how the transcript was obtained (upload, live
// transcription, upstream document import).
type IngestRecord struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"kind"` // meeting, requirement_doc or blueprint_doc
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Participants []string  `json:"participants,omitempty"`
	BodyText     string    `json:"body_text"`
}

// Validate checks the fields every ingest record must carry.
func (r *IngestRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return &ValidationError{Field: "id", Reason: "id cannot be empty"}
	}
	if r.Kind == "" {
		return &ValidationError{Field: "kind", Reason: "kind cannot be empty"}
	}
	if r.Kind != KindMeeting && r.Kind != KindRequirementDoc && r.Kind != KindBlueprintDoc {
		return &ValidationError{Field: "kind", Reason: "ingest source must be a meeting or root document, got " + string(r.Kind)}
	}
	if strings.TrimSpace(r.BodyText) == "" {
		return &ValidationError{Field: "body_text", Reason: "body_text cannot be empty"}
	}
	if r.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "date is required"}
	}
	return nil
}

// ExtractedItem is one candidate entity produced by the extraction
// capability. LinkedPerson carries an optional assignee or decision
// maker name; StatusUpdate marks items that report a status change for
// an existing artifact rather than a new one.
type ExtractedItem struct {
	Text         string  `json:"text"`
	Confidence   float64 `json:"confidence"`
	LinkedPerson string  `json:"linked_person,omitempty"`
	PersonRole   string  `json:"person_role,omitempty"`
	// Severity applies to blockers.
	Severity string `json:"severity,omitempty"`
	// Status applies to action items and status updates.
	Status ActionStatus `json:"status,omitempty"`
	// StatusUpdate marks the item as a status change report for an
	// action item already in the graph (matched by text).
	StatusUpdate bool `json:"status_update,omitempty"`
	// Resolved marks a blocker resolution report.
	Resolved bool `json:"resolved,omitempty"`
}

// Extraction is the validated output of the extraction capability for
// one body of text.
type Extraction struct {
	Decisions   []ExtractedItem `json:"decisions"`
	ActionItems []ExtractedItem `json:"action_items"`
	Blockers    []ExtractedItem `json:"blockers"`
	Topics      []ExtractedItem `json:"topics"`
}

// Empty reports whether extraction produced no candidates at all.
func (e *Extraction) Empty() bool {
	return len(e.Decisions) == 0 && len(e.ActionItems) == 0 &&
		len(e.Blockers) == 0 && len(e.Topics) == 0
}

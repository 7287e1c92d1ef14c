package dto

import (
	"time"

	"github.com/devgraph-ai/devgraph/pkg/types"
)

// IngestRequest carries one record for ingestion. Field validation is
// the domain's job; a malformed record inside a batch must fail alone,
// not reject the whole request.
type IngestRequest struct {
	ID           string     `json:"id"`
	Kind         types.Kind `json:"kind"`
	Title        string     `json:"title"`
	Date         time.Time  `json:"date"`
	Participants []string   `json:"participants"`
	BodyText     string     `json:"body_text"`
}

// Record converts the request into the ingestion input type.
func (r *IngestRequest) Record() *types.IngestRecord {
	return &types.IngestRecord{
		ID:           r.ID,
		Kind:         r.Kind,
		Title:        r.Title,
		Date:         r.Date,
		Participants: r.Participants,
		BodyText:     r.BodyText,
	}
}

// BatchIngestRequest carries several records for one batch load.
type BatchIngestRequest struct {
	Records []IngestRequest `json:"records" binding:"required"`
}

// BatchIngestResponse reports per-record outcomes, index-aligned with
// the request.
type BatchIngestResponse struct {
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Outcomes  []BatchRecordResult `json:"outcomes"`
}

// BatchRecordResult is the outcome of one record in a batch.
type BatchRecordResult struct {
	SourceID string `json:"source_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// QueryRequest carries one question. An empty question is legal and
// yields the typed no-answer result.
type QueryRequest struct {
	Question string `json:"question"`
}

// RippleRequest carries one change-impact request.
type RippleRequest struct {
	ArtifactID string `json:"artifact_id" binding:"required"`
	Change     string `json:"change" binding:"required"`
}

// AddRelationshipRequest carries one edge.
type AddRelationshipRequest struct {
	FromID string             `json:"from_id" binding:"required"`
	ToID   string             `json:"to_id" binding:"required"`
	Kind   types.RelationKind `json:"kind" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

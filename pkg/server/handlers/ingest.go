package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgraph-ai/devgraph"
	"github.com/devgraph-ai/devgraph/pkg/server/dto"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

// IngestHandler handles record ingestion requests
type IngestHandler struct {
	graph devgraph.DevGraph
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(g devgraph.DevGraph) *IngestHandler {
	return &IngestHandler{graph: g}
}

// IngestRecord handles POST /api/v1/ingest
func (h *IngestHandler) IngestRecord(c *gin.Context) {
	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.graph.Ingest(c.Request.Context(), req.Record())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// IngestBatch handles POST /api/v1/ingest/batch
func (h *IngestHandler) IngestBatch(c *gin.Context) {
	var req dto.BatchIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if len(req.Records) == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "records array cannot be empty"})
		return
	}

	records := make([]*types.IngestRecord, len(req.Records))
	for i := range req.Records {
		records[i] = req.Records[i].Record()
	}

	batch := h.graph.IngestBatch(c.Request.Context(), records)

	resp := dto.BatchIngestResponse{Outcomes: make([]dto.BatchRecordResult, len(records))}
	for i, err := range batch.Errors {
		if err != nil {
			resp.Failed++
			resp.Outcomes[i] = dto.BatchRecordResult{Error: err.Error()}
			continue
		}
		resp.Succeeded++
		resp.Outcomes[i] = dto.BatchRecordResult{SourceID: batch.Results[i].SourceID}
	}

	status := http.StatusCreated
	if resp.Succeeded == 0 {
		status = http.StatusBadRequest
	} else if resp.Failed > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, resp)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgraph-ai/devgraph"
	"github.com/devgraph-ai/devgraph/pkg/server/dto"
)

// QueryHandler handles question answering and ripple analysis requests
type QueryHandler struct {
	graph devgraph.DevGraph
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(g devgraph.DevGraph) *QueryHandler {
	return &QueryHandler{graph: g}
}

// Query handles POST /api/v1/query
func (h *QueryHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.graph.Query(c.Request.Context(), req.Question)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Ripple handles POST /api/v1/ripple
func (h *QueryHandler) Ripple(c *gin.Context) {
	var req dto.RippleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	report, err := h.graph.DetectRipple(c.Request.Context(), req.ArtifactID, req.Change)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

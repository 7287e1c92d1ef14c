package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/devgraph-ai/devgraph"
	"github.com/devgraph-ai/devgraph/pkg/graph"
	"github.com/devgraph-ai/devgraph/pkg/server/dto"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

// GraphHandler handles direct artifact and relationship access
type GraphHandler struct {
	graph devgraph.DevGraph
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(g devgraph.DevGraph) *GraphHandler {
	return &GraphHandler{graph: g}
}

// GetArtifact handles GET /api/v1/artifacts/:id
func (h *GraphHandler) GetArtifact(c *gin.Context) {
	artifact, err := h.graph.GetArtifact(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, artifact)
}

// GetNeighbors handles GET /api/v1/artifacts/:id/neighbors
func (h *GraphHandler) GetNeighbors(c *gin.Context) {
	opts := graph.NeighborOptions{}

	switch c.Query("direction") {
	case "", "out":
		opts.Direction = types.DirectionOutgoing
	case "in":
		opts.Direction = types.DirectionIncoming
	case "both":
		opts.Direction = types.DirectionBoth
	default:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "direction must be out, in or both"})
		return
	}

	for _, kind := range c.QueryArray("kind") {
		rk := types.RelationKind(kind)
		if !rk.Valid() {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "unrecognized relation kind " + kind})
			return
		}
		opts.Kinds = append(opts.Kinds, rk)
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: "limit must be a non-negative integer"})
			return
		}
		opts.Limit = n
	}

	neighbors, err := h.graph.Neighbors(c.Param("id"), opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"neighbors": neighbors, "count": len(neighbors)})
}

// AddArtifact handles POST /api/v1/artifacts
func (h *GraphHandler) AddArtifact(c *gin.Context) {
	var artifact types.Artifact
	if err := c.ShouldBindJSON(&artifact); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	id, err := h.graph.AddArtifact(c.Request.Context(), &artifact)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// AddRelationship handles POST /api/v1/relationships
func (h *GraphHandler) AddRelationship(c *gin.Context) {
	var req dto.AddRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	if err := h.graph.AddRelationship(req.FromID, req.ToID, req.Kind); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"from_id": req.FromID, "to_id": req.ToID, "kind": req.Kind})
}

// GetStats handles GET /api/v1/stats
func (h *GraphHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.graph.Stats())
}

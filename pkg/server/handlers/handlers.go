package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgraph-ai/devgraph/pkg/server/dto"
	"github.com/devgraph-ai/devgraph/pkg/types"
)

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case types.IsValidation(err):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrReferenceNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, types.ErrCyclicDependency):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "cyclic_dependency", Message: err.Error()})
	case errors.Is(err, types.ErrSynthesisTimeout):
		c.JSON(http.StatusGatewayTimeout, dto.ErrorResponse{Error: "synthesis_timeout", Message: err.Error()})
	case errors.Is(err, types.ErrSynthesisUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "synthesis_unavailable", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: err.Error()})
	}
}

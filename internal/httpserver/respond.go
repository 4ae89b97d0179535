package httpserver

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"freshfleet/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps domain errors to stable HTTP codes. Anything
// outside the taxonomy is a store or infrastructure failure: it is
// logged with detail and surfaced as an opaque 500.
func respondError(c *gin.Context, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "validation_error", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Code: "not_found", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse{Code: "conflict", Message: "cart was modified concurrently, re-read and retry"})
	default:
		logger.Printf("httpserver: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, errorResponse{Code: "internal_error", Message: "internal server error"})
	}
}

func respondValidation(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Code: "validation_error", Message: msg})
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/deividastamosaitis/objektai/service"
	"github.com/gin-gonic/gin"
)

// respondError maps service-layer sentinel errors to HTTP status codes.
// Anything unrecognized is a 500 with a generic message; the detail goes to
// the server log only.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

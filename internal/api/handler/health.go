package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health returns the health status of the service
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// userID extracts the authenticated user's ID from the X-User-ID header.
// Authentication itself happens upstream (reverse proxy / session layer);
// handlers only need the resolved identity. Writes a 401 when absent.
func userID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "X-User-ID header is required",
		})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid X-User-ID header",
		})
		return 0, false
	}
	return id, true
}

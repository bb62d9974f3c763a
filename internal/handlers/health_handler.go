package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports service readiness
type HealthHandler struct {
	dbPing           func() error
	skillsCacheReady func() bool
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(dbPing func() error, skillsCacheReady func() bool) *HealthHandler {
	return &HealthHandler{
		dbPing:           dbPing,
		skillsCacheReady: skillsCacheReady,
	}
}

// Healthcheck handles GET /api/healthcheck
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if err := h.dbPing(); err != nil {
		attachError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "database unreachable",
		})
		return
	}

	if !h.skillsCacheReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"reason": "skills cache not initialized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

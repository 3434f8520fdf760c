package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms/backend/internal/infrastructure/persistence"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	BaseHandler
	db      *persistence.Database
	started time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// RegisterRoutes registers health routes
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/health/ready", h.Ready)
}

// Health reports process liveness
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready reports whether the database is reachable
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil {
		h.Error(c, http.StatusServiceUnavailable, "ERR_NOT_READY", "Database not configured")
		return
	}
	if err := h.db.Ping(); err != nil {
		h.Error(c, http.StatusServiceUnavailable, "ERR_NOT_READY", "Database unreachable")
		return
	}
	h.Success(c, gin.H{"status": "ready"})
}

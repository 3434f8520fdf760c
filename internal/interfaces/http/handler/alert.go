package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// AlertHandler exposes low-stock alert queries and lifecycle transitions.
type AlertHandler struct {
	BaseHandler
	alerts *inventoryapp.AlertService
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alerts *inventoryapp.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// RegisterRoutes registers alert routes
func (h *AlertHandler) RegisterRoutes(rg *gin.RouterGroup) {
	alerts := rg.Group("/alerts")
	{
		alerts.GET("", h.ListByStatus)
		alerts.POST("/check", h.RunCheck)
		alerts.GET("/:id", h.GetByID)
		alerts.POST("/:id/acknowledge", h.Acknowledge)
		alerts.POST("/:id/resolve", h.Resolve)
	}

	rg.GET("/products/:id/alerts", h.ListByProduct)
}

// ListByStatus returns alerts in the given status (default ACTIVE)
func (h *AlertHandler) ListByStatus(c *gin.Context) {
	status := inventory.AlertStatus(c.DefaultQuery("status", string(inventory.AlertStatusActive)))
	if !status.IsValid() {
		h.BadRequest(c, "Invalid alert status")
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	alerts, err := h.alerts.ListByStatus(c.Request.Context(), status, toFilter(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alerts)
}

// RunCheck sweeps all products with a reorder point and reconciles their
// alerts immediately, outside the scheduler cadence
func (h *AlertHandler) RunCheck(c *gin.Context) {
	result, err := h.alerts.CheckProducts(c.Request.Context(), time.Now())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByID returns one alert
func (h *AlertHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	alert, err := h.alerts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alert)
}

// Acknowledge marks an active alert as seen by an operator
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	alert, err := h.alerts.AcknowledgeAlert(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alert)
}

// Resolve closes an alert manually
func (h *AlertHandler) Resolve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	alert, err := h.alerts.ResolveAlert(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alert)
}

// ListByProduct returns all alerts raised for a product
func (h *AlertHandler) ListByProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	alerts, err := h.alerts.ListByProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, alerts)
}

package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	batchapp "github.com/wms/backend/internal/application/batch"
	"github.com/wms/backend/internal/domain/batch"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// BatchHandler exposes batch registration, expiry tracking and quarantine.
type BatchHandler struct {
	BaseHandler
	batches *batchapp.ExpiryService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batches *batchapp.ExpiryService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// RegisterRoutes registers batch routes
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/batches")
	{
		batches.POST("", h.Register)
		batches.GET("", h.ListByStatus)
		batches.GET("/expiring", h.ListExpiring)
		batches.POST("/refresh", h.RefreshStatuses)
		batches.GET("/number/:batchNumber", h.GetByBatchNumber)
		batches.GET("/number/:batchNumber/history", h.History)
		batches.GET("/:id", h.GetByID)
		batches.POST("/:id/adjust", h.Adjust)
		batches.POST("/:id/expire", h.MarkAsExpired)
		batches.POST("/:id/quarantine", h.Quarantine)
		batches.POST("/:id/release", h.ReleaseQuarantine)
		batches.DELETE("/:id", h.Delete)
	}

	rg.GET("/products/:id/batches", h.ListByProduct)
}

// Register records a new batch for expiry tracking
func (h *BatchHandler) Register(c *gin.Context) {
	var req batchapp.RegisterBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.batches.Register(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// ListByStatus returns batches in the given status (default ACTIVE)
func (h *BatchHandler) ListByStatus(c *gin.Context) {
	status := batch.Status(c.DefaultQuery("status", string(batch.StatusActive)))
	if !status.IsValid() {
		h.BadRequest(c, "Invalid batch status")
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	records, err := h.batches.ListByStatus(c.Request.Context(), status, toFilter(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

// ListExpiring returns batches expiring within ?within_days (default 30)
func (h *BatchHandler) ListExpiring(c *gin.Context) {
	days := 30
	if raw := c.Query("within_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.BadRequest(c, "Invalid within_days")
			return
		}
		days = parsed
	}

	records, err := h.batches.ListExpiringWithin(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

// RefreshStatuses re-derives every batch status from its expiry date
func (h *BatchHandler) RefreshStatuses(c *gin.Context) {
	result, err := h.batches.RefreshStatuses(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByBatchNumber returns the live batch with the given batch number
func (h *BatchHandler) GetByBatchNumber(c *gin.Context) {
	record, err := h.batches.GetByBatchNumber(c.Request.Context(), c.Param("batchNumber"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// History returns every record ever held under the batch number, deleted
// ones included
func (h *BatchHandler) History(c *gin.Context) {
	records, err := h.batches.History(c.Request.Context(), c.Param("batchNumber"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

// GetByID returns one batch record
func (h *BatchHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	record, err := h.batches.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Adjust applies a signed quantity delta to a batch
func (h *BatchHandler) Adjust(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	var req batchapp.AdjustBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.batches.AdjustQuantity(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// MarkAsExpired forces a batch into EXPIRED ahead of its expiry date
func (h *BatchHandler) MarkAsExpired(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	record, err := h.batches.MarkAsExpired(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Quarantine places a batch under quarantine
func (h *BatchHandler) Quarantine(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	record, err := h.batches.Quarantine(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// ReleaseQuarantine lifts a quarantine, re-deriving the status from expiry
func (h *BatchHandler) ReleaseQuarantine(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	record, err := h.batches.ReleaseQuarantine(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Delete removes a depleted batch record
func (h *BatchHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	if err := h.batches.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListByProduct returns all batches registered for a product
func (h *BatchHandler) ListByProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	records, err := h.batches.ListByProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

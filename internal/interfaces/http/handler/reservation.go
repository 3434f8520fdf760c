package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// ReservationHandler exposes FEFO stock reservation and release.
type ReservationHandler struct {
	BaseHandler
	reservations *inventoryapp.ReservationService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservations *inventoryapp.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// ReleaseStockRequest releases previously reserved quantity on one record
type ReleaseStockRequest struct {
	StockRecordID uuid.UUID       `json:"stock_record_id" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	Reference     string          `json:"reference"`
}

// RegisterRoutes registers reservation routes
func (h *ReservationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reservations := rg.Group("/reservations")
	{
		reservations.POST("", h.Reserve)
		reservations.POST("/release", h.Release)
	}
}

// Reserve allocates the requested quantity across batches in expiry order.
// The reservation commits in full or not at all.
func (h *ReservationHandler) Reserve(c *gin.Context) {
	var req inventoryapp.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	plan, err := h.reservations.Reserve(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, plan)
}

// Release returns reserved quantity on a stock record to availability
func (h *ReservationHandler) Release(c *gin.Context) {
	var req ReleaseStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	if err := h.reservations.Release(c.Request.Context(), req.StockRecordID, req.Quantity, req.Reference); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// StockHandler exposes the stock ledger: receiving, adjustments, transfers,
// movement history and availability queries.
type StockHandler struct {
	BaseHandler
	ledger *inventoryapp.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledger *inventoryapp.LedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// RegisterRoutes registers stock ledger routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	records := rg.Group("/stock-records")
	{
		records.POST("", h.Add)
		records.GET("", h.List)
		records.GET("/expiring", h.ListExpiring)
		records.GET("/:id", h.GetByID)
		records.POST("/:id/adjust", h.Adjust)
		records.POST("/:id/transfer", h.Transfer)
		records.PUT("/:id/batch-info", h.UpdateBatchInfo)
		records.DELETE("/:id", h.Delete)
		records.GET("/:id/movements", h.ListMovements)
	}

	products := rg.Group("/products")
	{
		products.GET("/:id/stock-records", h.ListByProduct)
		products.GET("/:id/available", h.TotalAvailable)
		products.GET("/:id/movements", h.ListMovementsByProduct)
	}
}

// Add receives stock into the ledger
func (h *StockHandler) Add(c *gin.Context) {
	var req inventoryapp.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.ledger.AddStock(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, record)
}

// List returns a page of stock records; zone_id plus pallet_id narrow the
// listing to one location
func (h *StockHandler) List(c *gin.Context) {
	zoneStr := c.Query("zone_id")
	palletStr := c.Query("pallet_id")
	if zoneStr != "" && palletStr != "" {
		zoneID, err := strconv.ParseInt(zoneStr, 10, 64)
		if err != nil {
			h.BadRequest(c, "Invalid zone_id")
			return
		}
		palletID, err := strconv.ParseInt(palletStr, 10, 64)
		if err != nil {
			h.BadRequest(c, "Invalid pallet_id")
			return
		}
		records, err := h.ledger.ListByLocation(c.Request.Context(), zoneID, palletID)
		if err != nil {
			h.HandleDomainError(c, err)
			return
		}
		h.Success(c, records)
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.ledger.List(c.Request.Context(), toFilter(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ListExpiring returns stock records whose expiry date falls before a
// deadline, given either as ?before=2026-03-01 or ?within_days=30
func (h *StockHandler) ListExpiring(c *gin.Context) {
	var deadline time.Time
	switch {
	case c.Query("before") != "":
		t, err := parseDateTime(c.Query("before"))
		if err != nil {
			h.BadRequest(c, "Invalid before date")
			return
		}
		deadline = t
	case c.Query("within_days") != "":
		days, err := strconv.Atoi(c.Query("within_days"))
		if err != nil || days < 0 {
			h.BadRequest(c, "Invalid within_days")
			return
		}
		deadline = time.Now().AddDate(0, 0, days)
	default:
		h.BadRequest(c, "Either before or within_days is required")
		return
	}

	records, err := h.ledger.ListExpiringBefore(c.Request.Context(), deadline)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

// GetByID returns one stock record
func (h *StockHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	record, err := h.ledger.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Adjust applies a quantity adjustment to a stock record
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.ledger.Adjust(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Transfer moves a stock record to another location
func (h *StockHandler) Transfer(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	var req inventoryapp.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.ledger.Transfer(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// UpdateBatchInfo corrects batch metadata on a stock record
func (h *StockHandler) UpdateBatchInfo(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	var req inventoryapp.UpdateBatchInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.ledger.UpdateBatchInfo(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// Delete removes a stock record; records with reservations are refused
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	if err := h.ledger.DeleteRecord(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListMovements returns the movement log of one stock record
func (h *StockHandler) ListMovements(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid stock record ID")
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	movements, err := h.ledger.ListMovements(c.Request.Context(), id, toFilter(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

// ListByProduct returns all stock records of a product in expiry order
func (h *StockHandler) ListByProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	records, err := h.ledger.ListByProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, records)
}

// TotalAvailable returns the product's net available quantity across records
func (h *StockHandler) TotalAvailable(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	total, err := h.ledger.TotalAvailable(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"product_id": id, "net_available": total})
}

// ListMovementsByProduct returns the movement log across a product's records
func (h *StockHandler) ListMovementsByProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	movements, err := h.ledger.ListMovementsByProduct(c.Request.Context(), id, toFilter(req))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	warehouseapp "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
	"github.com/wms/backend/internal/interfaces/http/middleware"
)

// OperationHandler exposes warehouse operation creation, lifecycle
// transitions and queries.
type OperationHandler struct {
	BaseHandler
	operations *warehouseapp.OperationService
}

// NewOperationHandler creates a new OperationHandler
func NewOperationHandler(operations *warehouseapp.OperationService) *OperationHandler {
	return &OperationHandler{operations: operations}
}

// ConvenienceOperationRequest creates a typed operation with a generated
// operation number from a business reference
type ConvenienceOperationRequest struct {
	ReferenceNumber string                              `json:"reference_number" binding:"required"`
	ZoneID          *int64                              `json:"zone_id"`
	Items           []warehouseapp.OperationItemRequest `json:"items" binding:"required,min=1"`
}

// RegisterRoutes registers operation routes
func (h *OperationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	operations := rg.Group("/operations")
	{
		operations.POST("", h.Create)
		operations.POST("/inbound", h.CreateInbound)
		operations.POST("/picking", h.CreatePicking)
		operations.POST("/returns", h.CreateReturn)
		operations.GET("", h.List)
		operations.GET("/number/:operationNumber", h.GetByNumber)
		operations.GET("/:id", h.GetByID)
		operations.PATCH("/:id", h.Update)
		operations.POST("/:id/start", h.Start)
		operations.POST("/:id/hold", h.Hold)
		operations.POST("/:id/cancel", h.Cancel)
		operations.POST("/:id/complete", h.Complete)
	}
}

// Create creates a pending operation with an explicit number and type
func (h *OperationHandler) Create(c *gin.Context) {
	var req warehouseapp.CreateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	op, err := h.operations.Create(c.Request.Context(), &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, op)
}

// CreateInbound creates a receiving operation for a purchase reference
func (h *OperationHandler) CreateInbound(c *gin.Context) {
	var req ConvenienceOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	op, err := h.operations.CreateInbound(c.Request.Context(), req.ReferenceNumber, req.ZoneID, req.Items)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, op)
}

// CreatePicking creates a picking operation for an order reference
func (h *OperationHandler) CreatePicking(c *gin.Context) {
	var req ConvenienceOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	op, err := h.operations.CreatePicking(c.Request.Context(), req.ReferenceNumber, req.ZoneID, req.Items)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, op)
}

// CreateReturn creates a return operation for a return reference
func (h *OperationHandler) CreateReturn(c *gin.Context) {
	var req ConvenienceOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	op, err := h.operations.CreateReturn(c.Request.Context(), req.ReferenceNumber, req.Items)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, op)
}

// List returns a page of operations, optionally narrowed by ?type= or
// ?status=
func (h *OperationHandler) List(c *gin.Context) {
	req, err := bindListRequest(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	filter := toFilter(req)
	ctx := c.Request.Context()

	var page *shared.Paginated[warehouse.Operation]
	switch {
	case c.Query("status") != "":
		page, err = h.operations.ListByStatus(ctx, warehouse.OperationStatus(c.Query("status")), filter)
	case c.Query("type") != "":
		page, err = h.operations.ListByType(ctx, warehouse.OperationType(c.Query("type")), filter)
	default:
		page, err = h.operations.List(ctx, filter)
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, warehouseapp.ToOperationResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// GetByNumber returns the operation with the given operation number
func (h *OperationHandler) GetByNumber(c *gin.Context) {
	op, err := h.operations.GetByNumber(c.Request.Context(), c.Param("operationNumber"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, op)
}

// GetByID returns one operation with its items
func (h *OperationHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid operation ID")
		return
	}

	op, err := h.operations.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, op)
}

// Update mutates the header of a non-terminal operation
func (h *OperationHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid operation ID")
		return
	}

	var req warehouseapp.UpdateOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	op, err := h.operations.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, op)
}

// Start moves a pending or held operation into progress
func (h *OperationHandler) Start(c *gin.Context) {
	h.transition(c, h.operations.Start)
}

// Hold parks an operation
func (h *OperationHandler) Hold(c *gin.Context) {
	h.transition(c, h.operations.Hold)
}

// Cancel terminates an operation without stock effects
func (h *OperationHandler) Cancel(c *gin.Context) {
	h.transition(c, h.operations.Cancel)
}

// Complete processes the operation's items against the stock ledger and
// closes it
func (h *OperationHandler) Complete(c *gin.Context) {
	h.transition(c, h.operations.Complete)
}

func (h *OperationHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*warehouseapp.OperationResponse, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid operation ID")
		return
	}

	op, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, op)
}

package warehouse

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/warehouse"
)

// OperationItemRequest is one line on an operation creation request
type OperationItemRequest struct {
	ProductID           uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber         string          `json:"batch_number"`
	ExpiryDate          *time.Time      `json:"expiry_date"`
	Quantity            decimal.Decimal `json:"quantity" binding:"required"`
	SourcePalletID      *int64          `json:"source_pallet_id"`
	DestinationPalletID *int64          `json:"destination_pallet_id"`
	Disposition         string          `json:"disposition"`
	SourceStockID       *uuid.UUID      `json:"source_stock_id"`
}

// CreateOperationRequest creates a warehouse operation of any type
type CreateOperationRequest struct {
	OperationNumber   string                 `json:"operation_number" binding:"required"`
	Type              string                 `json:"type" binding:"required"`
	ReferenceNumber   string                 `json:"reference_number"`
	SourceZoneID      *int64                 `json:"source_zone_id"`
	DestinationZoneID *int64                 `json:"destination_zone_id"`
	Priority          int                    `json:"priority"`
	AssignedTo        string                 `json:"assigned_to"`
	Notes             string                 `json:"notes"`
	Items             []OperationItemRequest `json:"items" binding:"required,min=1"`
}

// UpdateOperationRequest mutates the header of a non-terminal operation
type UpdateOperationRequest struct {
	AssignedTo *string `json:"assigned_to"`
	Priority   *int    `json:"priority"`
	Notes      *string `json:"notes"`
}

// OperationItemResponse is the read model for one operation line
type OperationItemResponse struct {
	ID                  uuid.UUID       `json:"id"`
	LineNumber          int             `json:"line_number"`
	ProductID           uuid.UUID       `json:"product_id"`
	BatchNumber         string          `json:"batch_number,omitempty"`
	Quantity            decimal.Decimal `json:"quantity"`
	SourcePalletID      *int64          `json:"source_pallet_id,omitempty"`
	DestinationPalletID *int64          `json:"destination_pallet_id,omitempty"`
	Disposition         string          `json:"disposition,omitempty"`
	SourceStockID       *uuid.UUID      `json:"source_stock_id,omitempty"`
	Status              string          `json:"status"`
	StatusReason        string          `json:"status_reason,omitempty"`
}

// OperationResponse is the read model for a warehouse operation
type OperationResponse struct {
	ID                uuid.UUID               `json:"id"`
	OperationNumber   string                  `json:"operation_number"`
	Type              string                  `json:"type"`
	Status            string                  `json:"status"`
	ReferenceNumber   string                  `json:"reference_number,omitempty"`
	SourceZoneID      *int64                  `json:"source_zone_id,omitempty"`
	DestinationZoneID *int64                  `json:"destination_zone_id,omitempty"`
	Priority          int                     `json:"priority"`
	AssignedTo        string                  `json:"assigned_to,omitempty"`
	Notes             string                  `json:"notes,omitempty"`
	StartedAt         *time.Time              `json:"started_at,omitempty"`
	CompletedAt       *time.Time              `json:"completed_at,omitempty"`
	Items             []OperationItemResponse `json:"items"`
	Version           int                     `json:"version"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
}

// ToOperationResponse converts an operation to its response DTO
func ToOperationResponse(op *warehouse.Operation) *OperationResponse {
	items := make([]OperationItemResponse, len(op.Items))
	for i := range op.Items {
		item := &op.Items[i]
		items[i] = OperationItemResponse{
			ID:                  item.ID,
			LineNumber:          item.LineNumber,
			ProductID:           item.ProductID,
			BatchNumber:         item.BatchNumber,
			Quantity:            item.Quantity,
			SourcePalletID:      item.SourcePalletID,
			DestinationPalletID: item.DestinationPalletID,
			Disposition:         string(item.Disposition),
			SourceStockID:       item.SourceStockID,
			Status:              item.Status.String(),
			StatusReason:        item.StatusReason,
		}
	}
	return &OperationResponse{
		ID:                op.ID,
		OperationNumber:   op.OperationNumber,
		Type:              op.Type.String(),
		Status:            op.Status.String(),
		ReferenceNumber:   op.ReferenceNumber,
		SourceZoneID:      op.SourceZoneID,
		DestinationZoneID: op.DestinationZoneID,
		Priority:          op.Priority,
		AssignedTo:        op.AssignedTo,
		Notes:             op.Notes,
		StartedAt:         op.StartedAt,
		CompletedAt:       op.CompletedAt,
		Items:             items,
		Version:           op.Version,
		CreatedAt:         op.CreatedAt,
		UpdatedAt:         op.UpdatedAt,
	}
}

// ToOperationResponses converts a slice of operations
func ToOperationResponses(ops []warehouse.Operation) []*OperationResponse {
	responses := make([]*OperationResponse, len(ops))
	for i := range ops {
		responses[i] = ToOperationResponse(&ops[i])
	}
	return responses
}

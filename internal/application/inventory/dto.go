package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
)

// AddStockRequest receives new stock into the ledger
type AddStockRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	ZoneID      int64           `json:"zone_id" binding:"required"`
	PalletID    int64           `json:"pallet_id" binding:"required"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference"`
}

// AdjustStockRequest applies a quantity adjustment to one stock record
type AdjustStockRequest struct {
	Adjustment string          `json:"adjustment" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Reference  string          `json:"reference"`
	Reason     string          `json:"reason"`
}

// TransferStockRequest moves a stock record to another location
type TransferStockRequest struct {
	ZoneID   int64 `json:"zone_id" binding:"required"`
	PalletID int64 `json:"pallet_id" binding:"required"`
}

// UpdateBatchInfoRequest corrects batch metadata on a stock record
type UpdateBatchInfoRequest struct {
	BatchNumber string     `json:"batch_number"`
	ExpiryDate  *time.Time `json:"expiry_date"`
}

// ReserveStockRequest reserves product quantity in expiry order
type ReserveStockRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reference string          `json:"reference"`
}

// StockRecordResponse is the read model for a stock record
type StockRecordResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	BatchNumber       string          `json:"batch_number,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	QuantityReserved  decimal.Decimal `json:"quantity_reserved"`
	NetAvailable      decimal.Decimal `json:"net_available"`
	ZoneID            int64           `json:"zone_id"`
	PalletID          int64           `json:"pallet_id"`
	Status            string          `json:"status"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToStockRecordResponse converts a stock record to its response DTO
func ToStockRecordResponse(record *inventory.StockRecord) *StockRecordResponse {
	return &StockRecordResponse{
		ID:                record.ID,
		ProductID:         record.ProductID,
		BatchNumber:       record.BatchNumber,
		ExpiryDate:        record.ExpiryDate,
		QuantityAvailable: record.QuantityAvailable,
		QuantityReserved:  record.QuantityReserved,
		NetAvailable:      record.NetAvailable(),
		ZoneID:            record.Location.ZoneID,
		PalletID:          record.Location.PalletID,
		Status:            record.Status.String(),
		Version:           record.Version,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}

// ToStockRecordResponses converts a slice of stock records
func ToStockRecordResponses(records []inventory.StockRecord) []*StockRecordResponse {
	responses := make([]*StockRecordResponse, len(records))
	for i := range records {
		responses[i] = ToStockRecordResponse(&records[i])
	}
	return responses
}

// StockMovementResponse is the read model for one movement log entry
type StockMovementResponse struct {
	ID              uuid.UUID       `json:"id"`
	StockRecordID   uuid.UUID       `json:"stock_record_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	Adjustment      string          `json:"adjustment"`
	Quantity        decimal.Decimal `json:"quantity"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	Source          string          `json:"source"`
	SourceReference string          `json:"source_reference,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToStockMovementResponse converts a movement to its response DTO
func ToStockMovementResponse(movement *inventory.StockMovement) *StockMovementResponse {
	return &StockMovementResponse{
		ID:              movement.ID,
		StockRecordID:   movement.StockRecordID,
		ProductID:       movement.ProductID,
		Adjustment:      movement.Adjustment.String(),
		Quantity:        movement.Quantity,
		BalanceBefore:   movement.BalanceBefore,
		BalanceAfter:    movement.BalanceAfter,
		Source:          movement.Source.String(),
		SourceReference: movement.SourceReference,
		Reason:          movement.Reason,
		CreatedAt:       movement.CreatedAt,
	}
}

// ToStockMovementResponses converts a slice of movements
func ToStockMovementResponses(movements []inventory.StockMovement) []*StockMovementResponse {
	responses := make([]*StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToStockMovementResponse(&movements[i])
	}
	return responses
}

// ReservationResponse reports a committed FEFO reservation
type ReservationResponse struct {
	ProductID   uuid.UUID               `json:"product_id"`
	Requested   decimal.Decimal         `json:"requested"`
	Allocations []ReservationAllocation `json:"allocations"`
}

// ReservationAllocation is one allocated leg of a reservation
type ReservationAllocation struct {
	StockRecordID uuid.UUID       `json:"stock_record_id"`
	BatchNumber   string          `json:"batch_number,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// ToReservationResponse converts a committed plan to its response DTO
func ToReservationResponse(plan *inventory.ReservationPlan) *ReservationResponse {
	allocations := make([]ReservationAllocation, len(plan.Allocations))
	for i, a := range plan.Allocations {
		allocations[i] = ReservationAllocation{
			StockRecordID: a.StockRecordID,
			BatchNumber:   a.BatchNumber,
			Quantity:      a.Quantity,
		}
	}
	return &ReservationResponse{
		ProductID:   plan.ProductID,
		Requested:   plan.Requested,
		Allocations: allocations,
	}
}

// AlertResponse is the read model for a low-stock alert
type AlertResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ThresholdQuantity decimal.Decimal `json:"threshold_quantity"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	AlertDate         time.Time       `json:"alert_date"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToAlertResponse converts an alert to its response DTO
func ToAlertResponse(alert *inventory.LowStockAlert) *AlertResponse {
	return &AlertResponse{
		ID:                alert.ID,
		ProductID:         alert.ProductID,
		ThresholdQuantity: alert.ThresholdQuantity,
		CurrentQuantity:   alert.CurrentQuantity,
		AlertDate:         alert.AlertDate,
		Status:            alert.Status.String(),
		CreatedAt:         alert.CreatedAt,
		UpdatedAt:         alert.UpdatedAt,
	}
}

// ToAlertResponses converts a slice of alerts
func ToAlertResponses(alerts []inventory.LowStockAlert) []*AlertResponse {
	responses := make([]*AlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = ToAlertResponse(&alerts[i])
	}
	return responses
}

// AlertCheckResult summarizes one alert sweep. Alerts carries every alert
// raised or refreshed during the pass.
type AlertCheckResult struct {
	ProductsChecked int              `json:"products_checked"`
	AlertsRaised    int              `json:"alerts_raised"`
	AlertsRefreshed int              `json:"alerts_refreshed"`
	AlertsResolved  int              `json:"alerts_resolved"`
	Alerts          []*AlertResponse `json:"alerts"`
}

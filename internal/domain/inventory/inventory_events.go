package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Event type constants for the inventory context
const (
	EventTypeStockReceived     = "inventory.stock_received"
	EventTypeStockAdjusted     = "inventory.stock_adjusted"
	EventTypeStockTransferred  = "inventory.stock_transferred"
	EventTypeStockReserved     = "inventory.stock_reserved"
	EventTypeLowStockDetected  = "inventory.low_stock_detected"
	EventTypeLowStockResolved  = "inventory.low_stock_resolved"
)

// AggregateTypeStockRecord is the aggregate type name for stock records
const AggregateTypeStockRecord = "StockRecord"

// AggregateTypeLowStockAlert is the aggregate type name for low-stock alerts
const AggregateTypeLowStockAlert = "LowStockAlert"

// StockReceivedEvent is emitted when a new stock record is created.
type StockReceivedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	ZoneID      int64           `json:"zone_id"`
	PalletID    int64           `json:"pallet_id"`
	Status      StockStatus     `json:"status"`
}

// NewStockReceivedEvent creates a StockReceivedEvent
func NewStockReceivedEvent(record *StockRecord, quantity decimal.Decimal) *StockReceivedEvent {
	return &StockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReceived, AggregateTypeStockRecord, record.ID),
		ProductID:       record.ProductID,
		BatchNumber:     record.BatchNumber,
		Quantity:        quantity,
		ZoneID:          record.Location.ZoneID,
		PalletID:        record.Location.PalletID,
		Status:          record.Status,
	}
}

// StockAdjustedEvent is emitted for every successful quantity adjustment.
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID         uuid.UUID       `json:"product_id"`
	Adjustment        AdjustmentType  `json:"adjustment"`
	Quantity          decimal.Decimal `json:"quantity"`
	QuantityAvailable decimal.Decimal `json:"quantity_available"`
	QuantityReserved  decimal.Decimal `json:"quantity_reserved"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent from the post-adjustment record
func NewStockAdjustedEvent(record *StockRecord, adjustment AdjustmentType, quantity decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockRecord, record.ID),
		ProductID:         record.ProductID,
		Adjustment:        adjustment,
		Quantity:          quantity,
		QuantityAvailable: record.QuantityAvailable,
		QuantityReserved:  record.QuantityReserved,
	}
}

// StockTransferredEvent is emitted when a record changes location.
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	From      Location  `json:"from"`
	To        Location  `json:"to"`
}

// NewStockTransferredEvent creates a StockTransferredEvent
func NewStockTransferredEvent(record *StockRecord, from, to Location) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeStockRecord, record.ID),
		ProductID:       record.ProductID,
		From:            from,
		To:              to,
	}
}

// StockReservedEvent is emitted once per committed FEFO reservation.
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID               `json:"product_id"`
	Requested   decimal.Decimal         `json:"requested"`
	Allocations []ReservationAllocation `json:"allocations"`
}

// NewStockReservedEvent creates a StockReservedEvent from a committed plan
func NewStockReservedEvent(plan *ReservationPlan) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockReserved, AggregateTypeStockRecord, plan.ProductID),
		ProductID:       plan.ProductID,
		Requested:       plan.Requested,
		Allocations:     plan.Allocations,
	}
}

// LowStockDetectedEvent is emitted when a low-stock alert is raised.
type LowStockDetectedEvent struct {
	shared.BaseDomainEvent
	ProductID         uuid.UUID       `json:"product_id"`
	ThresholdQuantity decimal.Decimal `json:"threshold_quantity"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
}

// NewLowStockDetectedEvent creates a LowStockDetectedEvent
func NewLowStockDetectedEvent(alert *LowStockAlert) *LowStockDetectedEvent {
	return &LowStockDetectedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeLowStockDetected, AggregateTypeLowStockAlert, alert.ID),
		ProductID:         alert.ProductID,
		ThresholdQuantity: alert.ThresholdQuantity,
		CurrentQuantity:   alert.CurrentQuantity,
	}
}

// LowStockResolvedEvent is emitted when an alert is resolved.
type LowStockResolvedEvent struct {
	shared.BaseDomainEvent
	ProductID       uuid.UUID       `json:"product_id"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
}

// NewLowStockResolvedEvent creates a LowStockResolvedEvent
func NewLowStockResolvedEvent(alert *LowStockAlert) *LowStockResolvedEvent {
	return &LowStockResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStockResolved, AggregateTypeLowStockAlert, alert.ID),
		ProductID:       alert.ProductID,
		CurrentQuantity: alert.CurrentQuantity,
	}
}

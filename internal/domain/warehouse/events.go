package warehouse

import "github.com/wms/backend/internal/domain/shared"

const (
	EventTypeOperationCreated       = "warehouse.operation_created"
	EventTypeOperationStatusChanged = "warehouse.operation_status_changed"
)

// OperationCreatedEvent is emitted when a new operation is registered
type OperationCreatedEvent struct {
	shared.BaseDomainEvent
	OperationNumber string        `json:"operation_number"`
	Type            OperationType `json:"type"`
	ItemCount       int           `json:"item_count"`
}

// NewOperationCreatedEvent creates a new operation created event
func NewOperationCreatedEvent(op *Operation) *OperationCreatedEvent {
	return &OperationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperationCreated, "Operation", op.ID),
		OperationNumber: op.OperationNumber,
		Type:            op.Type,
		ItemCount:       len(op.Items),
	}
}

// OperationStatusChangedEvent is emitted on every lifecycle transition
type OperationStatusChangedEvent struct {
	shared.BaseDomainEvent
	OperationNumber string          `json:"operation_number"`
	Type            OperationType   `json:"type"`
	Status          OperationStatus `json:"status"`
}

// NewOperationStatusChangedEvent creates a new status changed event
func NewOperationStatusChangedEvent(op *Operation) *OperationStatusChangedEvent {
	return &OperationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperationStatusChanged, "Operation", op.ID),
		OperationNumber: op.OperationNumber,
		Type:            op.Type,
		Status:          op.Status,
	}
}

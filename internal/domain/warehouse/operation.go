// Package warehouse models warehouse work (receiving, picking, returns and
// friends) as operations moving through a fixed state machine. Completing an
// operation is the only place the stock ledger gets mutated as a batch, and
// it happens as one unit of work.
package warehouse

import (
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// OperationType represents the kind of warehouse work an operation captures
type OperationType string

const (
	OperationTypeInbound    OperationType = "INBOUND"
	OperationTypePutaway    OperationType = "PUTAWAY"
	OperationTypePicking    OperationType = "PICKING"
	OperationTypePacking    OperationType = "PACKING"
	OperationTypeReturn     OperationType = "RETURN"
	OperationTypeTransfer   OperationType = "TRANSFER"
	OperationTypeCycleCount OperationType = "CYCLE_COUNT"
)

// IsValid checks if the type is a valid OperationType
func (t OperationType) IsValid() bool {
	switch t {
	case OperationTypeInbound, OperationTypePutaway, OperationTypePicking,
		OperationTypePacking, OperationTypeReturn, OperationTypeTransfer, OperationTypeCycleCount:
		return true
	}
	return false
}

// String returns the string representation
func (t OperationType) String() string {
	return string(t)
}

// OperationStatus represents the lifecycle state of an operation
type OperationStatus string

const (
	OperationStatusPending    OperationStatus = "PENDING"
	OperationStatusInProgress OperationStatus = "IN_PROGRESS"
	OperationStatusCompleted  OperationStatus = "COMPLETED"
	OperationStatusCancelled  OperationStatus = "CANCELLED"
	OperationStatusOnHold     OperationStatus = "ON_HOLD"
)

// IsValid checks if the status is a valid OperationStatus
func (s OperationStatus) IsValid() bool {
	switch s {
	case OperationStatusPending, OperationStatusInProgress, OperationStatusCompleted,
		OperationStatusCancelled, OperationStatusOnHold:
		return true
	}
	return false
}

// String returns the string representation
func (s OperationStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status admits no further transitions
func (s OperationStatus) IsTerminal() bool {
	return s == OperationStatusCompleted || s == OperationStatusCancelled
}

// Operation is the aggregate root for warehouse work. It owns its items
// exclusively; items have no independent lifecycle.
type Operation struct {
	shared.BaseAggregateRoot
	OperationNumber   string          `gorm:"size:64;not null;uniqueIndex"`
	Type              OperationType   `gorm:"size:16;not null;index"`
	Status            OperationStatus `gorm:"size:16;not null;index"`
	ReferenceNumber   string          `gorm:"size:128;index"`
	SourceZoneID      *int64
	DestinationZoneID *int64
	Priority          int    `gorm:"not null;default:0"`
	AssignedTo        string `gorm:"size:128"`
	Notes             string `gorm:"size:512"`
	StartedAt         *time.Time
	CompletedAt       *time.Time

	Items []Item `gorm:"foreignKey:OperationID;references:ID"`
}

// TableName returns the table name for GORM
func (Operation) TableName() string {
	return "warehouse_operations"
}

// NewOperation creates a PENDING operation with its items. Operation number
// uniqueness is enforced at the repository boundary.
func NewOperation(operationNumber string, opType OperationType, referenceNumber string, items []ItemSpec) (*Operation, error) {
	if operationNumber == "" {
		return nil, shared.NewDomainError("INVALID_OPERATION_NUMBER", "Operation number cannot be empty")
	}
	if !opType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION_TYPE", "Unknown operation type: "+string(opType))
	}

	op := &Operation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OperationNumber:   operationNumber,
		Type:              opType,
		Status:            OperationStatusPending,
		ReferenceNumber:   referenceNumber,
		Items:             make([]Item, 0, len(items)),
	}

	for i, spec := range items {
		item, err := newItem(op.ID, i, spec)
		if err != nil {
			return nil, err
		}
		op.Items = append(op.Items, *item)
	}

	op.AddDomainEvent(NewOperationCreatedEvent(op))
	return op, nil
}

// Start transitions PENDING or ON_HOLD to IN_PROGRESS and stamps StartedAt.
func (o *Operation) Start(now time.Time) error {
	if o.Status != OperationStatusPending && o.Status != OperationStatusOnHold {
		return transitionError(o.Status, OperationStatusInProgress)
	}
	o.Status = OperationStatusInProgress
	o.StartedAt = &now
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOperationStatusChangedEvent(o))
	return nil
}

// Hold parks any non-terminal operation.
func (o *Operation) Hold() error {
	if o.Status.IsTerminal() {
		return transitionError(o.Status, OperationStatusOnHold)
	}
	o.Status = OperationStatusOnHold
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOperationStatusChangedEvent(o))
	return nil
}

// Cancel terminates any non-terminal operation.
func (o *Operation) Cancel() error {
	if o.Status.IsTerminal() {
		return transitionError(o.Status, OperationStatusCancelled)
	}
	o.Status = OperationStatusCancelled
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOperationStatusChangedEvent(o))
	return nil
}

// Complete transitions IN_PROGRESS to COMPLETED and stamps CompletedAt.
// Type-specific item processing runs before this in the same unit of work;
// the guard here is what keeps a PENDING operation from completing directly.
func (o *Operation) Complete(now time.Time) error {
	if o.Status != OperationStatusInProgress {
		return transitionError(o.Status, OperationStatusCompleted)
	}
	o.Status = OperationStatusCompleted
	o.CompletedAt = &now
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOperationStatusChangedEvent(o))
	return nil
}

// UpdateHeader mutates the assignable header fields of a non-terminal
// operation.
func (o *Operation) UpdateHeader(assignedTo *string, priority *int, notes *string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a "+string(o.Status)+" operation")
	}
	if assignedTo != nil {
		o.AssignedTo = *assignedTo
	}
	if priority != nil {
		o.Priority = *priority
	}
	if notes != nil {
		o.Notes = *notes
	}
	o.Touch()
	o.IncrementVersion()
	return nil
}

// SetZones sets the source and destination zone references.
func (o *Operation) SetZones(sourceZoneID, destinationZoneID *int64) {
	o.SourceZoneID = sourceZoneID
	o.DestinationZoneID = destinationZoneID
	o.Touch()
}

// ItemByID returns a pointer into the items slice, or nil.
func (o *Operation) ItemByID(id string) *Item {
	for i := range o.Items {
		if o.Items[i].ID.String() == id {
			return &o.Items[i]
		}
	}
	return nil
}

func transitionError(from, to OperationStatus) error {
	return shared.NewDomainError("INVALID_STATE",
		"Invalid operation transition from "+string(from)+" to "+string(to))
}

package warehouse

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// ItemStatus is the per-line processing outcome recorded at completion
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "PENDING"
	ItemStatusProcessed ItemStatus = "PROCESSED"
	ItemStatusVerified  ItemStatus = "VERIFIED"
	ItemStatusRejected  ItemStatus = "REJECTED"
)

// IsValid checks if the status is a valid ItemStatus
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusProcessed, ItemStatusVerified,
		ItemStatusRejected:
		return true
	}
	return false
}

// String returns the string representation
func (s ItemStatus) String() string {
	return string(s)
}

// Disposition directs how a returned line is handled at completion
type Disposition string

const (
	DispositionRestock Disposition = "restock"
	DispositionScrap   Disposition = "scrap"
)

// IsValid checks if the disposition is recognized
func (d Disposition) IsValid() bool {
	return d == DispositionRestock || d == DispositionScrap
}

// ItemSpec is the input shape for creating an operation line.
type ItemSpec struct {
	ProductID           uuid.UUID
	BatchNumber         string
	ExpiryDate          *time.Time
	Quantity            decimal.Decimal
	SourcePalletID      *int64
	DestinationPalletID *int64
	Disposition         Disposition
	SourceStockID       *uuid.UUID
}

// Item is a line on a warehouse operation. Items are owned by the operation
// and persisted through it.
type Item struct {
	shared.BaseEntity
	OperationID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNumber          int             `gorm:"not null"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber         string          `gorm:"size:128"`
	ExpiryDate          *time.Time      `gorm:"type:date"`
	Quantity            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SourcePalletID      *int64
	DestinationPalletID *int64
	Disposition         Disposition `gorm:"size:16"`
	SourceStockID       *uuid.UUID  `gorm:"type:uuid"`
	Status              ItemStatus  `gorm:"size:16;not null"`
	StatusReason        string      `gorm:"size:256"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "warehouse_operation_items"
}

func newItem(operationID uuid.UUID, lineNumber int, spec ItemSpec) (*Item, error) {
	if spec.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Operation item requires a product")
	}
	if spec.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Operation item quantity must be positive")
	}

	return &Item{
		BaseEntity:          shared.NewBaseEntity(),
		OperationID:         operationID,
		LineNumber:          lineNumber,
		ProductID:           spec.ProductID,
		BatchNumber:         spec.BatchNumber,
		ExpiryDate:          spec.ExpiryDate,
		Quantity:            spec.Quantity,
		SourcePalletID:      spec.SourcePalletID,
		DestinationPalletID: spec.DestinationPalletID,
		Disposition:         spec.Disposition,
		SourceStockID:       spec.SourceStockID,
		Status:              ItemStatusPending,
	}, nil
}

// MarkProcessed records a successfully handled line.
func (i *Item) MarkProcessed() {
	i.Status = ItemStatusProcessed
	i.StatusReason = ""
	i.Touch()
}

// MarkRejected records a line that could not be handled. Rejection does not
// fail the operation; it is a per-line outcome.
func (i *Item) MarkRejected(reason string) {
	i.Status = ItemStatusRejected
	i.StatusReason = reason
	i.Touch()
}

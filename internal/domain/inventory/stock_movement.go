package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// MovementSource represents the document type that caused a ledger mutation
type MovementSource string

const (
	// MovementSourceOperation is a warehouse operation completion
	MovementSourceOperation MovementSource = "WAREHOUSE_OPERATION"
	// MovementSourceOrder is an order reservation
	MovementSourceOrder MovementSource = "ORDER"
	// MovementSourceManual is a manual adjustment
	MovementSourceManual MovementSource = "MANUAL"
	// MovementSourceReceipt is a direct stock receipt
	MovementSourceReceipt MovementSource = "RECEIPT"
)

// String returns the string representation
func (s MovementSource) String() string {
	return string(s)
}

// IsValid returns true if the movement source is valid
func (s MovementSource) IsValid() bool {
	switch s {
	case MovementSourceOperation, MovementSourceOrder, MovementSourceManual, MovementSourceReceipt:
		return true
	}
	return false
}

// StockMovement is an append-only audit record of one ledger mutation. It is
// written in the same unit of work as the mutation itself, so the movement
// log and the ledger never diverge.
type StockMovement struct {
	shared.BaseEntity
	StockRecordID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Adjustment      AdjustmentType  `gorm:"size:16;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Source          MovementSource  `gorm:"size:32;not null"`
	SourceReference string          `gorm:"size:128"`
	Reason          string          `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records a single adjustment against a stock record.
// balanceBefore/balanceAfter capture the available quantity around the
// mutation.
func NewStockMovement(record *StockRecord, adjustment AdjustmentType, quantity, balanceBefore decimal.Decimal, source MovementSource, reference, reason string) (*StockMovement, error) {
	if !adjustment.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Unknown adjustment type: "+string(adjustment))
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Unknown movement source: "+string(source))
	}

	return &StockMovement{
		BaseEntity:      shared.NewBaseEntity(),
		StockRecordID:   record.ID,
		ProductID:       record.ProductID,
		Adjustment:      adjustment,
		Quantity:        quantity,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    record.QuantityAvailable,
		Source:          source,
		SourceReference: reference,
		Reason:          reason,
	}, nil
}

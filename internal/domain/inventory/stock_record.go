package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// StockStatus represents the disposition of a stock record
type StockStatus string

const (
	StockStatusAvailable   StockStatus = "AVAILABLE"
	StockStatusDamaged     StockStatus = "DAMAGED"
	StockStatusExpired     StockStatus = "EXPIRED"
	StockStatusQuarantined StockStatus = "QUARANTINED"
)

// IsValid checks if the status is a valid StockStatus
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusAvailable, StockStatusDamaged, StockStatusExpired, StockStatusQuarantined:
		return true
	}
	return false
}

// String returns the string representation
func (s StockStatus) String() string {
	return string(s)
}

// Location identifies where stock physically sits in the warehouse.
// Zone and pallet topology is owned by an external collaborator; the ledger
// only carries the references.
type Location struct {
	ZoneID   int64 `gorm:"column:zone_id"`
	PalletID int64 `gorm:"column:pallet_id"`
}

// StockRecord is the aggregate root of the stock ledger. A record tracks the
// on-hand and reserved quantity of one product (optionally one batch) at one
// location. All quantity changes go through Apply; the record is never
// mutated field-by-field from outside the aggregate.
type StockRecord struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber       string          `gorm:"size:64;index"`
	ExpiryDate        *time.Time      `gorm:"type:date"`
	QuantityAvailable decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityReserved  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Location          Location        `gorm:"embedded"`
	Status            StockStatus     `gorm:"size:16;not null;default:'AVAILABLE';index"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates a stock record for a received quantity.
// Reserved starts at zero; status defaults to AVAILABLE when empty.
func NewStockRecord(productID uuid.UUID, batchNumber string, expiryDate *time.Time, quantity decimal.Decimal, location Location, status StockStatus) (*StockRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Available quantity must be non-negative")
	}
	if status == "" {
		status = StockStatusAvailable
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown stock status: "+string(status))
	}

	record := &StockRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BatchNumber:       batchNumber,
		ExpiryDate:        expiryDate,
		QuantityAvailable: quantity,
		QuantityReserved:  decimal.Zero,
		Location:          location,
		Status:            status,
	}
	record.AddDomainEvent(NewStockReceivedEvent(record, quantity))
	return record, nil
}

// NetAvailable returns the quantity not yet claimed by reservations.
func (r *StockRecord) NetAvailable() decimal.Decimal {
	return r.QuantityAvailable.Sub(r.QuantityReserved)
}

// IsAvailable reports whether the record can satisfy new reservations.
func (r *StockRecord) IsAvailable() bool {
	return r.Status == StockStatusAvailable && r.NetAvailable().GreaterThan(decimal.Zero)
}

// HasReservations reports whether any quantity is still reserved.
func (r *StockRecord) HasReservations() bool {
	return r.QuantityReserved.GreaterThan(decimal.Zero)
}

// Apply executes a quantity adjustment against the record. The quantity must
// be strictly positive; each adjustment type enforces its own precondition
// and fails with an InsufficientStockError naming the shortfall when the
// record cannot cover it.
func (r *StockRecord) Apply(adjustment AdjustmentType, quantity decimal.Decimal) error {
	if !adjustment.IsValid() {
		return shared.NewDomainError("INVALID_ADJUSTMENT", "Unknown adjustment type: "+string(adjustment))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Adjustment quantity must be positive")
	}

	switch adjustment {
	case AdjustmentAdd:
		r.QuantityAvailable = r.QuantityAvailable.Add(quantity)

	case AdjustmentRemove:
		if r.QuantityAvailable.LessThan(quantity) {
			return NewInsufficientStockError(quantity, r.QuantityAvailable)
		}
		r.QuantityAvailable = r.QuantityAvailable.Sub(quantity)

	case AdjustmentReserve:
		if r.QuantityAvailable.LessThan(quantity) {
			return NewInsufficientStockError(quantity, r.QuantityAvailable)
		}
		r.QuantityAvailable = r.QuantityAvailable.Sub(quantity)
		r.QuantityReserved = r.QuantityReserved.Add(quantity)

	case AdjustmentRelease:
		if r.QuantityReserved.LessThan(quantity) {
			return NewInsufficientStockError(quantity, r.QuantityReserved)
		}
		r.QuantityReserved = r.QuantityReserved.Sub(quantity)
		r.QuantityAvailable = r.QuantityAvailable.Add(quantity)

	case AdjustmentDamage:
		if r.QuantityAvailable.LessThan(quantity) {
			return NewInsufficientStockError(quantity, r.QuantityAvailable)
		}
		r.QuantityAvailable = r.QuantityAvailable.Sub(quantity)
		r.Status = StockStatusDamaged

	case AdjustmentExpired:
		if r.QuantityAvailable.LessThan(quantity) {
			return NewInsufficientStockError(quantity, r.QuantityAvailable)
		}
		r.QuantityAvailable = r.QuantityAvailable.Sub(quantity)
		r.Status = StockStatusExpired
	}

	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewStockAdjustedEvent(r, adjustment, quantity))
	return nil
}

// TransferLocation rewrites the record's location without touching quantities.
func (r *StockRecord) TransferLocation(zoneID, palletID int64) {
	from := r.Location
	r.Location = Location{ZoneID: zoneID, PalletID: palletID}
	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewStockTransferredEvent(r, from, r.Location))
}

// UpdateBatchInfo replaces the batch number and expiry date (correction flow).
func (r *StockRecord) UpdateBatchInfo(batchNumber string, expiryDate *time.Time) {
	r.BatchNumber = batchNumber
	r.ExpiryDate = expiryDate
	r.Touch()
	r.IncrementVersion()
}

// SetStatus overrides the record status (correction flow).
func (r *StockRecord) SetStatus(status StockStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown stock status: "+string(status))
	}
	r.Status = status
	r.Touch()
	r.IncrementVersion()
	return nil
}

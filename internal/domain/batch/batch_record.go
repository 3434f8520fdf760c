// Package batch tracks pharmaceutical batch expiry and quarantine state.
// Batch records share the (product, batch number) key space with the stock
// ledger but have their own lifecycle; callers that mutate both keep them
// consistent inside one unit of work.
package batch

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/shared"
)

// ExpiringSoonWindow is how far ahead of the expiry date a batch is flagged
// EXPIRING_SOON.
const ExpiringSoonWindow = 30 * 24 * time.Hour

// Status represents the lifecycle state of a batch
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusExpiringSoon Status = "EXPIRING_SOON"
	StatusExpired      Status = "EXPIRED"
	StatusQuarantined  Status = "QUARANTINED"
)

// IsValid checks if the status is a valid batch Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusExpiringSoon, StatusExpired, StatusQuarantined:
		return true
	}
	return false
}

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// Location identifies where the batch sits in the warehouse.
type Location struct {
	ZoneID   int64 `gorm:"column:zone_id"`
	PalletID int64 `gorm:"column:pallet_id"`
}

// Record is the aggregate root for batch expiry tracking. The batch number
// is globally unique among live records; depleted batches that get
// re-registered show up in the batch history by number.
type Record struct {
	shared.BaseAggregateRoot
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber     string          `gorm:"size:64;not null;index"`
	ExpiryDate      time.Time       `gorm:"type:date;not null"`
	QuantityCurrent decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Location        Location        `gorm:"embedded"`
	Status          Status          `gorm:"size:16;not null;index"`

	// Soft delete keeps depleted batches queryable for history after the
	// number is re-registered.
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "batch_records"
}

// NewRecord registers a batch. The expiry date must not be in the past and
// the quantity must be non-negative; batch number uniqueness is enforced at
// the repository boundary.
func NewRecord(productID uuid.UUID, batchNumber string, expiryDate time.Time, quantity decimal.Decimal, location Location, now time.Time) (*Record, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if expiryDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry date is required")
	}
	if dateOf(expiryDate).Before(dateOf(now)) {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry date cannot be in the past")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be non-negative")
	}

	record := &Record{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		BatchNumber:       batchNumber,
		ExpiryDate:        expiryDate,
		QuantityCurrent:   quantity,
		Location:          location,
	}
	record.Status = DeriveStatus(record.ExpiryDate, record.Status, now)
	return record, nil
}

// DeriveStatus computes the batch status from the expiry date and reference
// time. An elapsed expiry date always wins; a manual quarantine hold wins
// over the remaining time-derived states until it is cleared.
func DeriveStatus(expiryDate time.Time, current Status, now time.Time) Status {
	today := dateOf(now)
	expiry := dateOf(expiryDate)
	switch {
	case expiry.Before(today):
		return StatusExpired
	case current == StatusQuarantined:
		return StatusQuarantined
	case !expiry.After(today.Add(ExpiringSoonWindow)):
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// RefreshStatus re-derives the status. Returns true when it changed.
func (r *Record) RefreshStatus(now time.Time) bool {
	derived := DeriveStatus(r.ExpiryDate, r.Status, now)
	if derived == r.Status {
		return false
	}
	r.Status = derived
	r.Touch()
	r.IncrementVersion()
	return true
}

// AdjustQuantity applies a signed quantity delta and re-derives the status.
// A zero delta or a delta that would drive the quantity negative fails.
func (r *Record) AdjustQuantity(delta decimal.Decimal, now time.Time) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	next := r.QuantityCurrent.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY",
			"Quantity cannot go negative. Current: "+r.QuantityCurrent.String()+", change: "+delta.String())
	}
	r.QuantityCurrent = next
	r.Status = DeriveStatus(r.ExpiryDate, r.Status, now)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// MarkAsExpired manually forces the batch into EXPIRED.
func (r *Record) MarkAsExpired() {
	r.Status = StatusExpired
	r.Touch()
	r.IncrementVersion()
}

// Quarantine places a manual hold on the batch. The hold is sticky: status
// derivation keeps QUARANTINED until ReleaseQuarantine, except for an elapsed
// expiry date which always wins.
func (r *Record) Quarantine() {
	r.Status = StatusQuarantined
	r.Touch()
	r.IncrementVersion()
}

// ReleaseQuarantine clears a manual hold and re-derives the status. Fails
// when the batch is not quarantined.
func (r *Record) ReleaseQuarantine(now time.Time) error {
	if r.Status != StatusQuarantined {
		return shared.NewDomainError("INVALID_STATE", "Batch is not quarantined")
	}
	r.Status = DeriveStatus(r.ExpiryDate, StatusActive, now)
	r.Touch()
	r.IncrementVersion()
	return nil
}

// IsDepleted reports whether the batch has no remaining quantity.
func (r *Record) IsDepleted() bool {
	return r.QuantityCurrent.IsZero()
}

// IsExpired reports whether the expiry date has elapsed as of now.
func (r *Record) IsExpired(now time.Time) bool {
	return dateOf(r.ExpiryDate).Before(dateOf(now))
}

// DaysUntilExpiry returns the whole days until expiry, negative once elapsed.
func (r *Record) DaysUntilExpiry(now time.Time) int {
	return int(dateOf(r.ExpiryDate).Sub(dateOf(now)).Hours() / 24)
}

// dateOf truncates a timestamp to its calendar date in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

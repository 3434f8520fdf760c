package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// AlertStatus represents the lifecycle state of a low-stock alert
type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "ACTIVE"
	AlertStatusAcknowledged AlertStatus = "ACKNOWLEDGED"
	AlertStatusResolved     AlertStatus = "RESOLVED"
)

// IsValid checks if the status is a valid AlertStatus
func (s AlertStatus) IsValid() bool {
	switch s {
	case AlertStatusActive, AlertStatusAcknowledged, AlertStatusResolved:
		return true
	}
	return false
}

// String returns the string representation
func (s AlertStatus) String() string {
	return string(s)
}

// LowStockAlert records that a product's available quantity fell to or below
// its reorder point. At most one ACTIVE alert exists per product; re-checks
// refresh the existing alert instead of creating a duplicate.
type LowStockAlert struct {
	shared.BaseAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ThresholdQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AlertDate         time.Time       `gorm:"type:date;not null"`
	Status            AlertStatus     `gorm:"size:16;not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (LowStockAlert) TableName() string {
	return "low_stock_alerts"
}

// NewLowStockAlert creates an ACTIVE alert snapshotting the current quantity.
func NewLowStockAlert(productID uuid.UUID, threshold, current decimal.Decimal, alertDate time.Time) (*LowStockAlert, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if threshold.IsNegative() {
		return nil, shared.NewDomainError("INVALID_THRESHOLD", "Threshold quantity cannot be negative")
	}

	alert := &LowStockAlert{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		ThresholdQuantity: threshold,
		CurrentQuantity:   current,
		AlertDate:         alertDate,
		Status:            AlertStatusActive,
	}
	alert.AddDomainEvent(NewLowStockDetectedEvent(alert))
	return alert, nil
}

// Refresh updates the quantity snapshot and alert date in place. Only
// meaningful for alerts that are not yet resolved.
func (a *LowStockAlert) Refresh(current decimal.Decimal, alertDate time.Time) {
	a.CurrentQuantity = current
	a.AlertDate = alertDate
	a.Touch()
	a.IncrementVersion()
}

// Acknowledge flips ACTIVE to ACKNOWLEDGED; any other starting status is a
// no-op. Returns true when the status changed.
func (a *LowStockAlert) Acknowledge() bool {
	if a.Status != AlertStatusActive {
		return false
	}
	a.Status = AlertStatusAcknowledged
	a.Touch()
	a.IncrementVersion()
	return true
}

// Resolve marks the alert RESOLVED with the quantity that cleared it.
// Resolving an already resolved alert is a no-op. Returns true when the
// status changed.
func (a *LowStockAlert) Resolve(current decimal.Decimal) bool {
	if a.Status == AlertStatusResolved {
		return false
	}
	a.Status = AlertStatusResolved
	a.CurrentQuantity = current
	a.Touch()
	a.IncrementVersion()
	a.AddDomainEvent(NewLowStockResolvedEvent(a))
	return true
}

// IsResolvable reports whether the given available quantity clears the
// threshold. Resolution requires strictly more than the threshold.
func (a *LowStockAlert) IsResolvable(available decimal.Decimal) bool {
	return available.GreaterThan(a.ThresholdQuantity)
}

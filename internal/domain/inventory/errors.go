package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientStockError is returned when an adjustment or reservation cannot
// be covered by the quantity on hand. Shortfall carries the missing amount so
// callers can decide whether to retry with a reduced quantity.
type InsufficientStockError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
	Shortfall decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %s, available %s, missing %s",
		e.Requested.String(), e.Available.String(), e.Shortfall.String())
}

// NewInsufficientStockError creates an InsufficientStockError from the
// requested and available quantities.
func NewInsufficientStockError(requested, available decimal.Decimal) *InsufficientStockError {
	return &InsufficientStockError{
		Requested: requested,
		Available: available,
		Shortfall: requested.Sub(available),
	}
}

// Package catalog holds the read-side product reference data consumed by the
// stock core. Product lifecycle management lives in an external system; this
// context only exposes the attributes the ledger and alert engine depend on.
package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// Product is a read model of the externally owned product catalog entry.
type Product struct {
	shared.BaseEntity
	SKU           string           `gorm:"size:64;not null;uniqueIndex"`
	Name          string           `gorm:"size:255;not null"`
	ReorderPoint  *decimal.Decimal `gorm:"type:decimal(18,4)"` // nil when no low-stock rule is configured
	StorageZoneID *int64
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// HasReorderPoint reports whether a low-stock threshold is configured.
func (p *Product) HasReorderPoint() bool {
	return p.ReorderPoint != nil && p.ReorderPoint.GreaterThan(decimal.Zero)
}

// NewProduct creates a catalog read model entry. Used by seeding and tests;
// production rows are replicated from the owning catalog service.
func NewProduct(sku, name string) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        sku,
		Name:       name,
	}, nil
}

// SetReorderPoint configures the low-stock threshold for the product.
func (p *Product) SetReorderPoint(threshold decimal.Decimal) error {
	if threshold.IsNegative() {
		return shared.NewDomainError("INVALID_THRESHOLD", "Reorder point cannot be negative")
	}
	p.ReorderPoint = &threshold
	p.Touch()
	return nil
}

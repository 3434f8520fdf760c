package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines read access to the product catalog replica.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindWithReorderPoint finds all products that have a reorder point configured
	FindWithReorderPoint(ctx context.Context) ([]Product, error)

	// Exists checks whether a product with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Save creates or updates a product read model entry
	Save(ctx context.Context, product *Product) error
}

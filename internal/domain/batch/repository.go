package batch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Repository defines the interface for batch record persistence
type Repository interface {
	// FindByID finds a batch record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// FindByBatchNumber finds the live record for a batch number
	FindByBatchNumber(ctx context.Context, batchNumber string) (*Record, error)

	// ExistsByBatchNumber checks the global batch number uniqueness invariant
	ExistsByBatchNumber(ctx context.Context, batchNumber string) (bool, error)

	// FindByProduct finds all batch records for a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Record, error)

	// FindByStatus finds batch records with the given status
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]Record, error)

	// FindByLocation finds batch records at a zone/pallet location
	FindByLocation(ctx context.Context, zoneID, palletID int64) ([]Record, error)

	// FindExpiringBefore finds non-expired records whose expiry date falls
	// before the deadline
	FindExpiringBefore(ctx context.Context, deadline time.Time) ([]Record, error)

	// FindExpired finds records whose expiry date has elapsed
	FindExpired(ctx context.Context, now time.Time) ([]Record, error)

	// FindHistoryByBatchNumber returns every record ever stored under the
	// batch number, newest update first (batches can be re-registered after
	// depletion)
	FindHistoryByBatchNumber(ctx context.Context, batchNumber string) ([]Record, error)

	// FindAll lists batch records with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]Record, error)

	// Count counts batch records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a batch record
	Save(ctx context.Context, record *Record) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, record *Record) error

	// Delete deletes a batch record
	Delete(ctx context.Context, id uuid.UUID) error
}

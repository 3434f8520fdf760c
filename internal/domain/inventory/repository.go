package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// StockRecordRepository defines the interface for stock record persistence
type StockRecordRepository interface {
	// FindByID finds a stock record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockRecord, error)

	// FindByProduct finds all stock records for a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockRecord, error)

	// FindAvailableByProduct finds AVAILABLE records with positive net
	// available quantity for a product (reservation candidates)
	FindAvailableByProduct(ctx context.Context, productID uuid.UUID) ([]StockRecord, error)

// FindByLocation finds all records at a zone/pallet location
	FindByLocation(ctx context.Context, zoneID, palletID int64) ([]StockRecord, error)

	// FindByStatus finds all records with the given status
	FindByStatus(ctx context.Context, status StockStatus, filter shared.Filter) ([]StockRecord, error)

	// FindExpiringBefore finds records whose expiry date falls before the deadline
	FindExpiringBefore(ctx context.Context, deadline time.Time) ([]StockRecord, error)

	// FindLowStock finds records whose available quantity is at or below the threshold
	FindLowStock(ctx context.Context, threshold decimal.Decimal) ([]StockRecord, error)

	// FindAll lists stock records with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]StockRecord, error)

	// Count counts stock records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// SumNetAvailableByProduct sums net available quantity over AVAILABLE
	// records for the product
	SumNetAvailableByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a stock record
	Save(ctx context.Context, record *StockRecord) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, record *StockRecord) error

	// Delete deletes a stock record
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockMovementRepository is the append-only repository for movement records
type StockMovementRepository interface {
	// Create appends a movement record
	Create(ctx context.Context, movement *StockMovement) error

	// FindByStockRecord lists movements for a stock record, newest first
	FindByStockRecord(ctx context.Context, stockRecordID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByProduct lists movements for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
}

// LowStockAlertRepository defines the interface for alert persistence
type LowStockAlertRepository interface {
	// FindByID finds an alert by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*LowStockAlert, error)

	// FindOpenByProduct finds the unresolved (ACTIVE or ACKNOWLEDGED) alert
	// for a product, if any
	FindOpenByProduct(ctx context.Context, productID uuid.UUID) (*LowStockAlert, error)

	// FindByStatus finds alerts with the given status
	FindByStatus(ctx context.Context, status AlertStatus, filter shared.Filter) ([]LowStockAlert, error)

	// FindByProduct finds all alerts for a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]LowStockAlert, error)

	// Save creates or updates an alert
	Save(ctx context.Context, alert *LowStockAlert) error

	// Delete deletes an alert
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteResolvedBefore deletes RESOLVED alerts whose alert date is before
	// the cutoff and returns the number deleted
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

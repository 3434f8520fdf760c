package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormLowStockAlertRepository implements LowStockAlertRepository using GORM
type GormLowStockAlertRepository struct {
	db *gorm.DB
}

// NewGormLowStockAlertRepository creates a new GormLowStockAlertRepository
func NewGormLowStockAlertRepository(db *gorm.DB) *GormLowStockAlertRepository {
	return &GormLowStockAlertRepository{db: db}
}

// FindByID finds an alert by its ID
func (r *GormLowStockAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.LowStockAlert, error) {
	var alert inventory.LowStockAlert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindOpenByProduct finds the unresolved (ACTIVE or ACKNOWLEDGED) alert for a
// product, if any
func (r *GormLowStockAlertRepository) FindOpenByProduct(ctx context.Context, productID uuid.UUID) (*inventory.LowStockAlert, error) {
	var alert inventory.LowStockAlert
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND status IN ?", productID,
			[]inventory.AlertStatus{inventory.AlertStatusActive, inventory.AlertStatusAcknowledged}).
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindByStatus finds alerts with the given status
func (r *GormLowStockAlertRepository) FindByStatus(ctx context.Context, status inventory.AlertStatus, filter shared.Filter) ([]inventory.LowStockAlert, error) {
	var alerts []inventory.LowStockAlert
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.LowStockAlert{}).Where("status = ?", status),
		filter,
	)
	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindByProduct finds all alerts for a product
func (r *GormLowStockAlertRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.LowStockAlert, error) {
	var alerts []inventory.LowStockAlert
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// Save creates or updates an alert
func (r *GormLowStockAlertRepository) Save(ctx context.Context, alert *inventory.LowStockAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// Delete deletes an alert
func (r *GormLowStockAlertRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.LowStockAlert{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteResolvedBefore deletes RESOLVED alerts with an alert date before the cutoff
func (r *GormLowStockAlertRepository) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND alert_date < ?", inventory.AlertStatusResolved, cutoff).
		Delete(&inventory.LowStockAlert{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormLowStockAlertRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AlertSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormLowStockAlertRepository implements LowStockAlertRepository
var _ inventory.LowStockAlertRepository = (*GormLowStockAlertRepository)(nil)

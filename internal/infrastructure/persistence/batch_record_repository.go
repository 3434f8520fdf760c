package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/batch"
	"github.com/wms/backend/internal/domain/shared"
)

// GormBatchRepository implements the batch Repository using GORM. Deletes are
// soft so a re-registered batch number keeps its full history.
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch record by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*batch.Record, error) {
	var record batch.Record
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByBatchNumber finds the live record for a batch number
func (r *GormBatchRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*batch.Record, error) {
	var record batch.Record
	if err := r.db.WithContext(ctx).
		Where("batch_number = ?", batchNumber).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// ExistsByBatchNumber checks whether a live record holds the batch number
func (r *GormBatchRepository) ExistsByBatchNumber(ctx context.Context, batchNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&batch.Record{}).
		Where("batch_number = ?", batchNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByProduct finds all batch records for a product
func (r *GormBatchRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]batch.Record, error) {
	var records []batch.Record
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("expiry_date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByStatus finds batch records with the given status
func (r *GormBatchRepository) FindByStatus(ctx context.Context, status batch.Status, filter shared.Filter) ([]batch.Record, error) {
	var records []batch.Record
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&batch.Record{}).Where("status = ?", status),
		filter,
	)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByLocation finds batch records at a zone/pallet location
func (r *GormBatchRepository) FindByLocation(ctx context.Context, zoneID, palletID int64) ([]batch.Record, error) {
	var records []batch.Record
	if err := r.db.WithContext(ctx).
		Where("zone_id = ? AND pallet_id = ?", zoneID, palletID).
		Order("expiry_date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindExpiringBefore finds non-expired records whose expiry date falls before
// the deadline
func (r *GormBatchRepository) FindExpiringBefore(ctx context.Context, deadline time.Time) ([]batch.Record, error) {
	var records []batch.Record
	if err := r.db.WithContext(ctx).
		Where("status <> ? AND expiry_date < ?", batch.StatusExpired, deadline).
		Order("expiry_date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindExpired finds records whose expiry date has elapsed
func (r *GormBatchRepository) FindExpired(ctx context.Context, now time.Time) ([]batch.Record, error) {
	var records []batch.Record
	if err := r.db.WithContext(ctx).
		Where("expiry_date <= ?", now).
		Order("expiry_date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindHistoryByBatchNumber returns every record ever stored under the batch
// number, soft-deleted ones included, newest update first
func (r *GormBatchRepository) FindHistoryByBatchNumber(ctx context.Context, batchNumber string) ([]batch.Record, error) {
	var records []batch.Record
	if err := r.db.WithContext(ctx).
		Unscoped().
		Where("batch_number = ?", batchNumber).
		Order("updated_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll lists batch records with pagination
func (r *GormBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]batch.Record, error) {
	var records []batch.Record
	query := r.applyFilter(r.db.WithContext(ctx).Model(&batch.Record{}), filter)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts batch records matching the filter
func (r *GormBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&batch.Record{})
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a batch record
func (r *GormBatchRepository) Save(ctx context.Context, record *batch.Record) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormBatchRepository) SaveWithLock(ctx context.Context, record *batch.Record) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"quantity_current": record.QuantityCurrent,
			"expiry_date":      record.ExpiryDate,
			"zone_id":          record.Location.ZoneID,
			"pallet_id":        record.Location.PalletID,
			"status":           record.Status,
			"version":          record.Version,
			"updated_at":       record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete soft deletes a batch record, freeing its batch number for
// re-registration while keeping the row for history queries
func (r *GormBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&batch.Record{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, BatchRecordSortFields, "expiry_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormBatchRepository implements the batch Repository
var _ batch.Repository = (*GormBatchRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
)

// GormOperationRepository implements the warehouse Repository using GORM
type GormOperationRepository struct {
	db *gorm.DB
}

// NewGormOperationRepository creates a new GormOperationRepository
func NewGormOperationRepository(db *gorm.DB) *GormOperationRepository {
	return &GormOperationRepository{db: db}
}

// FindByID finds an operation with its items by ID
func (r *GormOperationRepository) FindByID(ctx context.Context, id uuid.UUID) (*warehouse.Operation, error) {
	var op warehouse.Operation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&op, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// FindByOperationNumber finds an operation with its items by operation number
func (r *GormOperationRepository) FindByOperationNumber(ctx context.Context, operationNumber string) (*warehouse.Operation, error) {
	var op warehouse.Operation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("operation_number = ?", operationNumber).
		First(&op).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// ExistsByOperationNumber checks the operation number uniqueness invariant
func (r *GormOperationRepository) ExistsByOperationNumber(ctx context.Context, operationNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&warehouse.Operation{}).
		Where("operation_number = ?", operationNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByStatus lists operations with the given status
func (r *GormOperationRepository) FindByStatus(ctx context.Context, status warehouse.OperationStatus, filter shared.Filter) (*shared.Paginated[warehouse.Operation], error) {
	return r.findPage(ctx, filter, func(query *gorm.DB) *gorm.DB {
		return query.Where("status = ?", status)
	})
}

// FindByType lists operations with the given type
func (r *GormOperationRepository) FindByType(ctx context.Context, opType warehouse.OperationType, filter shared.Filter) (*shared.Paginated[warehouse.Operation], error) {
	return r.findPage(ctx, filter, func(query *gorm.DB) *gorm.DB {
		return query.Where("type = ?", opType)
	})
}

// FindByReference finds all operations created for a reference document
func (r *GormOperationRepository) FindByReference(ctx context.Context, referenceNumber string) ([]*warehouse.Operation, error) {
	var ops []*warehouse.Operation
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("reference_number = ?", referenceNumber).
		Order("created_at ASC").
		Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

// FindAll lists operations with pagination
func (r *GormOperationRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[warehouse.Operation], error) {
	return r.findPage(ctx, filter, func(query *gorm.DB) *gorm.DB {
		return query
	})
}

// Count counts all operations
func (r *GormOperationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&warehouse.Operation{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an operation and its items
func (r *GormOperationRepository) Save(ctx context.Context, op *warehouse.Operation) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(op).Error
}

// SaveWithLock saves the operation header with optimistic locking and then
// persists the items
func (r *GormOperationRepository) SaveWithLock(ctx context.Context, op *warehouse.Operation) error {
	result := r.db.WithContext(ctx).
		Model(op).
		Where("id = ? AND version = ?", op.ID, op.Version-1).
		Updates(map[string]interface{}{
			"status":       op.Status,
			"priority":     op.Priority,
			"assigned_to":  op.AssignedTo,
			"notes":        op.Notes,
			"started_at":   op.StartedAt,
			"completed_at": op.CompletedAt,
			"version":      op.Version,
			"updated_at":   op.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	for i := range op.Items {
		if err := r.db.WithContext(ctx).Save(&op.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes an operation and its items
func (r *GormOperationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&warehouse.Item{}, "operation_id = ?", id).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&warehouse.Operation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOperationRepository) findPage(ctx context.Context, filter shared.Filter, scope func(*gorm.DB) *gorm.DB) (*shared.Paginated[warehouse.Operation], error) {
	var total int64
	if err := scope(r.db.WithContext(ctx).Model(&warehouse.Operation{})).Count(&total).Error; err != nil {
		return nil, err
	}

	var ops []warehouse.Operation
	query := scope(r.db.WithContext(ctx).Model(&warehouse.Operation{})).Preload("Items")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, OperationSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if err := query.Order(orderBy + " " + orderDir).Find(&ops).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ops, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Ensure GormOperationRepository implements the warehouse Repository
var _ warehouse.Repository = (*GormOperationRepository)(nil)

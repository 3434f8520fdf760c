package persistence

import (
	"context"

	"gorm.io/gorm"

	appinv "github.com/wms/backend/internal/application/inventory"
	appwh "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/warehouse"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions. Ledger mutations and their movement records commit
// or roll back together.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

type gormInventoryRepositories struct {
	tx *gorm.DB
}

// StockRepo returns the stock record repository scoped to the current transaction
func (r *gormInventoryRepositories) StockRepo() inventory.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormInventoryRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// AlertRepo returns the alert repository scoped to the current transaction
func (r *gormInventoryRepositories) AlertRepo() inventory.LowStockAlertRepository {
	return NewGormLowStockAlertRepository(r.tx)
}

// GormWarehouseTransactionScope implements the warehouse TransactionScope
// using GORM transactions. Operation completion flips the status and applies
// the stock effects in one transaction.
type GormWarehouseTransactionScope struct {
	db *gorm.DB
}

// NewGormWarehouseTransactionScope creates a new GormWarehouseTransactionScope
func NewGormWarehouseTransactionScope(db *gorm.DB) *GormWarehouseTransactionScope {
	return &GormWarehouseTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormWarehouseTransactionScope) Execute(ctx context.Context, fn func(repos appwh.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormWarehouseRepositories{tx: tx})
	})
}

type gormWarehouseRepositories struct {
	tx *gorm.DB
}

// OperationRepo returns the operation repository scoped to the current transaction
func (r *gormWarehouseRepositories) OperationRepo() warehouse.Repository {
	return NewGormOperationRepository(r.tx)
}

// StockRepo returns the stock record repository scoped to the current transaction
func (r *gormWarehouseRepositories) StockRepo() inventory.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction
func (r *gormWarehouseRepositories) MovementRepo() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Ensure the scopes implement their application interfaces
var (
	_ appinv.TransactionScope          = (*GormInventoryTransactionScope)(nil)
	_ appinv.TransactionalRepositories = (*gormInventoryRepositories)(nil)
	_ appwh.TransactionScope           = (*GormWarehouseTransactionScope)(nil)
	_ appwh.TransactionalRepositories  = (*gormWarehouseRepositories)(nil)
)

package inventory

import (
	"context"

	"github.com/wms/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the stock ledger
// repositories. All repository operations inside Execute share one database
// transaction and commit or roll back as a unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories inside
// a transaction. StockRepo owns the StockRecord aggregate; MovementRepo is
// append-only; AlertRepo carries low-stock alerts so resolution can ride the
// same commit as the adjustment that cleared them.
type TransactionalRepositories interface {
	StockRepo() inventory.StockRecordRepository
	MovementRepo() inventory.StockMovementRepository
	AlertRepo() inventory.LowStockAlertRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests with in-memory repositories.
type NoOpTransactionScope struct {
	stockRepo    inventory.StockRecordRepository
	movementRepo inventory.StockMovementRepository
	alertRepo    inventory.LowStockAlertRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories.
func NewNoOpTransactionScope(
	stockRepo inventory.StockRecordRepository,
	movementRepo inventory.StockMovementRepository,
	alertRepo inventory.LowStockAlertRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		alertRepo:    alertRepo,
	}
}

// Execute runs the function directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the stock record repository.
func (s *NoOpTransactionScope) StockRepo() inventory.StockRecordRepository {
	return s.stockRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// AlertRepo returns the low stock alert repository.
func (s *NoOpTransactionScope) AlertRepo() inventory.LowStockAlertRepository {
	return s.alertRepo
}

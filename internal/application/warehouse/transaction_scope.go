package warehouse

import (
	"context"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/warehouse"
)

// TransactionScope provides transactional access to the repositories that
// operation completion touches. Completion mutates the operation and the
// stock ledger together; both commit or roll back as one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the operation and ledger
// repositories inside a transaction.
type TransactionalRepositories interface {
	OperationRepo() warehouse.Repository
	StockRepo() inventory.StockRecordRepository
	MovementRepo() inventory.StockMovementRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests with in-memory repositories.
type NoOpTransactionScope struct {
	operationRepo warehouse.Repository
	stockRepo     inventory.StockRecordRepository
	movementRepo  inventory.StockMovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given
// repositories.
func NewNoOpTransactionScope(
	operationRepo warehouse.Repository,
	stockRepo inventory.StockRecordRepository,
	movementRepo inventory.StockMovementRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		operationRepo: operationRepo,
		stockRepo:     stockRepo,
		movementRepo:  movementRepo,
	}
}

// Execute runs the function directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OperationRepo returns the operation repository.
func (s *NoOpTransactionScope) OperationRepo() warehouse.Repository {
	return s.operationRepo
}

// StockRepo returns the stock record repository.
func (s *NoOpTransactionScope) StockRepo() inventory.StockRecordRepository {
	return s.stockRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

package warehouse

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// Repository defines persistence for warehouse operations. Implementations
// load and save items together with the operation.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Operation, error)
	FindByOperationNumber(ctx context.Context, operationNumber string) (*Operation, error)
	ExistsByOperationNumber(ctx context.Context, operationNumber string) (bool, error)
	FindByStatus(ctx context.Context, status OperationStatus, filter shared.Filter) (*shared.Paginated[Operation], error)
	FindByType(ctx context.Context, opType OperationType, filter shared.Filter) (*shared.Paginated[Operation], error)
	FindByReference(ctx context.Context, referenceNumber string) ([]*Operation, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Operation], error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, op *Operation) error
	SaveWithLock(ctx context.Context, op *Operation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

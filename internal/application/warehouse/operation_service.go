// Package warehouse provides the application services that drive warehouse
// operations through their lifecycle and apply their stock effects.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/domain/warehouse"
)

// Operation number prefixes for the convenience creation endpoints.
const (
	inboundNumberPrefix = "INB-"
	pickingNumberPrefix = "PICK-"
	returnNumberPrefix  = "RET-"
)

// maxConflictRetries bounds completion retries after optimistic-lock races
// on the touched stock records.
const maxConflictRetries = 3

// OperationService orchestrates warehouse operations. Lifecycle transitions
// are plain state changes; Complete additionally applies the operation's
// stock effects, all inside one transaction.
type OperationService struct {
	operationRepo  warehouse.Repository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewOperationService creates a new OperationService
func NewOperationService(operationRepo warehouse.Repository, txScope TransactionScope) *OperationService {
	return &OperationService{
		operationRepo: operationRepo,
		txScope:       txScope,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OperationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source. Tests use this to pin timestamps.
func (s *OperationService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *OperationService) publishDomainEvents(ctx context.Context, op *warehouse.Operation) {
	if s.eventPublisher == nil {
		return
	}
	events := op.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	op.ClearDomainEvents()
}

// Create registers a new operation in PENDING. Operation numbers are unique;
// a duplicate fails with a conflict so retried submissions cannot create a
// second operation.
func (s *OperationService) Create(ctx context.Context, req *CreateOperationRequest) (*OperationResponse, error) {
	opType := warehouse.OperationType(req.Type)
	if !opType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION_TYPE", "Unknown operation type: "+req.Type)
	}

	taken, err := s.operationRepo.ExistsByOperationNumber(ctx, req.OperationNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Operation number already exists: "+req.OperationNumber)
	}

	specs := make([]warehouse.ItemSpec, len(req.Items))
	for i, item := range req.Items {
		specs[i] = warehouse.ItemSpec{
			ProductID:           item.ProductID,
			BatchNumber:         item.BatchNumber,
			ExpiryDate:          item.ExpiryDate,
			Quantity:            item.Quantity,
			SourcePalletID:      item.SourcePalletID,
			DestinationPalletID: item.DestinationPalletID,
			Disposition:         warehouse.Disposition(item.Disposition),
			SourceStockID:       item.SourceStockID,
		}
	}

	op, err := warehouse.NewOperation(req.OperationNumber, opType, req.ReferenceNumber, specs)
	if err != nil {
		return nil, err
	}
	op.SetZones(req.SourceZoneID, req.DestinationZoneID)
	op.Priority = req.Priority
	op.AssignedTo = req.AssignedTo
	op.Notes = req.Notes

	if err := s.operationRepo.Save(ctx, op); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, op)
	return ToOperationResponse(op), nil
}

// CreateInbound creates an INBOUND operation with a generated INB- number.
func (s *OperationService) CreateInbound(ctx context.Context, referenceNumber string, destinationZoneID *int64, items []OperationItemRequest) (*OperationResponse, error) {
	return s.Create(ctx, &CreateOperationRequest{
		OperationNumber:   s.generateNumber(inboundNumberPrefix),
		Type:              warehouse.OperationTypeInbound.String(),
		ReferenceNumber:   referenceNumber,
		DestinationZoneID: destinationZoneID,
		Items:             items,
	})
}

// CreatePicking creates a PICKING operation with a generated PICK- number.
func (s *OperationService) CreatePicking(ctx context.Context, referenceNumber string, sourceZoneID *int64, items []OperationItemRequest) (*OperationResponse, error) {
	return s.Create(ctx, &CreateOperationRequest{
		OperationNumber: s.generateNumber(pickingNumberPrefix),
		Type:            warehouse.OperationTypePicking.String(),
		ReferenceNumber: referenceNumber,
		SourceZoneID:    sourceZoneID,
		Items:           items,
	})
}

// CreateReturn creates a RETURN operation with a generated RET- number.
func (s *OperationService) CreateReturn(ctx context.Context, referenceNumber string, items []OperationItemRequest) (*OperationResponse, error) {
	return s.Create(ctx, &CreateOperationRequest{
		OperationNumber: s.generateNumber(returnNumberPrefix),
		Type:            warehouse.OperationTypeReturn.String(),
		ReferenceNumber: referenceNumber,
		Items:           items,
	})
}

func (s *OperationService) generateNumber(prefix string) string {
	return fmt.Sprintf("%s%s-%s", prefix, s.now().Format("20060102"), uuid.New().String()[:8])
}

// Start transitions an operation to IN_PROGRESS.
func (s *OperationService) Start(ctx context.Context, operationID uuid.UUID) (*OperationResponse, error) {
	return s.transition(ctx, operationID, func(op *warehouse.Operation) error {
		return op.Start(s.now())
	})
}

// Hold parks a non-terminal operation.
func (s *OperationService) Hold(ctx context.Context, operationID uuid.UUID) (*OperationResponse, error) {
	return s.transition(ctx, operationID, func(op *warehouse.Operation) error {
		return op.Hold()
	})
}

// Cancel terminates a non-terminal operation without stock effects.
func (s *OperationService) Cancel(ctx context.Context, operationID uuid.UUID) (*OperationResponse, error) {
	return s.transition(ctx, operationID, func(op *warehouse.Operation) error {
		return op.Cancel()
	})
}

func (s *OperationService) transition(ctx context.Context, operationID uuid.UUID, change func(*warehouse.Operation) error) (*OperationResponse, error) {
	op, err := s.operationRepo.FindByID(ctx, operationID)
	if err != nil {
		return nil, err
	}
	if err := change(op); err != nil {
		return nil, err
	}
	if err := s.operationRepo.SaveWithLock(ctx, op); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, op)
	return ToOperationResponse(op), nil
}

// Complete finishes an IN_PROGRESS operation, applying its type-specific
// stock effects and the status flip inside one transaction. A failure leaves
// the operation IN_PROGRESS and the ledger untouched, so a later retry
// starts from a clean slate.
func (s *OperationService) Complete(ctx context.Context, operationID uuid.UUID) (*OperationResponse, error) {
	var completed *warehouse.Operation
	var lastErr error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		completed = nil
		lastErr = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			op, err := repos.OperationRepo().FindByID(ctx, operationID)
			if err != nil {
				return err
			}
			if op.Status != warehouse.OperationStatusInProgress {
				return shared.NewDomainError("INVALID_STATE",
					"Only IN_PROGRESS operations can be completed, current status: "+op.Status.String())
			}

			now := s.now()
			if err := s.processItems(ctx, repos, op, now); err != nil {
				return err
			}
			if err := op.Complete(now); err != nil {
				return err
			}
			if err := repos.OperationRepo().SaveWithLock(ctx, op); err != nil {
				return err
			}
			completed = op
			return nil
		})
		if lastErr == nil {
			s.publishDomainEvents(ctx, completed)
			return ToOperationResponse(completed), nil
		}
		if !errors.Is(lastErr, shared.ErrConcurrencyConflict) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (s *OperationService) processItems(ctx context.Context, repos TransactionalRepositories, op *warehouse.Operation, now time.Time) error {
	switch op.Type {
	case warehouse.OperationTypeInbound:
		return s.processInbound(ctx, repos, op)
	case warehouse.OperationTypePicking:
		return s.processPicking(ctx, repos, op)
	case warehouse.OperationTypeReturn:
		return s.processReturn(ctx, repos, op)
	default:
		// Putaway, packing, transfer and cycle count complete without
		// ledger effects; their physical work is tracked by the items.
		for i := range op.Items {
			op.Items[i].MarkProcessed()
		}
		return nil
	}
}

// processInbound receives every item into the ledger as AVAILABLE stock at
// the operation's destination zone.
func (s *OperationService) processInbound(ctx context.Context, repos TransactionalRepositories, op *warehouse.Operation) error {
	zoneID := int64(0)
	if op.DestinationZoneID != nil {
		zoneID = *op.DestinationZoneID
	}

	for i := range op.Items {
		item := &op.Items[i]
		palletID := int64(0)
		if item.DestinationPalletID != nil {
			palletID = *item.DestinationPalletID
		}
		record, err := inventory.NewStockRecord(item.ProductID, item.BatchNumber, item.ExpiryDate, item.Quantity, inventory.Location{ZoneID: zoneID, PalletID: palletID}, inventory.StockStatusAvailable)
		if err != nil {
			return err
		}
		if err := repos.StockRepo().Save(ctx, record); err != nil {
			return err
		}
		movement, err := inventory.NewStockMovement(record, inventory.AdjustmentAdd, item.Quantity, decimal.Zero, inventory.MovementSourceOperation, op.OperationNumber, "")
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}
		item.MarkProcessed()
	}
	return nil
}

// processPicking reserves every item's quantity in FEFO order. Any shortfall
// fails the whole completion.
func (s *OperationService) processPicking(ctx context.Context, repos TransactionalRepositories, op *warehouse.Operation) error {
	for i := range op.Items {
		item := &op.Items[i]
		candidates, err := repos.StockRepo().FindAvailableByProduct(ctx, item.ProductID)
		if err != nil {
			return err
		}
		plan, err := inventory.PlanFEFOReservation(item.ProductID, item.Quantity, candidates)
		if err != nil {
			return err
		}
		for _, allocation := range plan.Allocations {
			record, err := repos.StockRepo().FindByID(ctx, allocation.StockRecordID)
			if err != nil {
				return err
			}
			balanceBefore := record.QuantityAvailable
			if err := record.Apply(inventory.AdjustmentReserve, allocation.Quantity); err != nil {
				return err
			}
			if err := repos.StockRepo().SaveWithLock(ctx, record); err != nil {
				return err
			}
			movement, err := inventory.NewStockMovement(record, inventory.AdjustmentReserve, allocation.Quantity, balanceBefore, inventory.MovementSourceOperation, op.OperationNumber, "")
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Create(ctx, movement); err != nil {
				return err
			}
		}
		item.MarkProcessed()
	}
	return nil
}

// processReturn routes each item by disposition: restock creates quarantined
// stock pending inspection, scrap books a DAMAGE adjustment against the
// originating record. An unrecognized disposition rejects the item without
// failing the operation.
func (s *OperationService) processReturn(ctx context.Context, repos TransactionalRepositories, op *warehouse.Operation) error {
	for i := range op.Items {
		item := &op.Items[i]
		switch item.Disposition {
		case warehouse.DispositionRestock:
			if err := s.restockReturn(ctx, repos, op, item); err != nil {
				return err
			}
		case warehouse.DispositionScrap:
			if err := s.scrapReturn(ctx, repos, op, item); err != nil {
				return err
			}
		default:
			item.MarkRejected("unrecognized disposition: " + string(item.Disposition))
		}
	}
	return nil
}

func (s *OperationService) restockReturn(ctx context.Context, repos TransactionalRepositories, op *warehouse.Operation, item *warehouse.Item) error {
	zoneID := int64(0)
	if op.DestinationZoneID != nil {
		zoneID = *op.DestinationZoneID
	}
	palletID := int64(0)
	if item.DestinationPalletID != nil {
		palletID = *item.DestinationPalletID
	}

	record, err := inventory.NewStockRecord(item.ProductID, item.BatchNumber, item.ExpiryDate, item.Quantity, inventory.Location{ZoneID: zoneID, PalletID: palletID}, inventory.StockStatusQuarantined)
	if err != nil {
		return err
	}
	if err := repos.StockRepo().Save(ctx, record); err != nil {
		return err
	}
	movement, err := inventory.NewStockMovement(record, inventory.AdjustmentAdd, item.Quantity, decimal.Zero, inventory.MovementSourceOperation, op.OperationNumber, "customer return")
	if err != nil {
		return err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return err
	}
	item.MarkProcessed()
	return nil
}

func (s *OperationService) scrapReturn(ctx context.Context, repos TransactionalRepositories, op *warehouse.Operation, item *warehouse.Item) error {
	if item.SourceStockID == nil {
		item.MarkRejected("scrap disposition requires a source stock record")
		return nil
	}
	record, err := repos.StockRepo().FindByID(ctx, *item.SourceStockID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			item.MarkRejected("source stock record not found")
			return nil
		}
		return err
	}
	balanceBefore := record.QuantityAvailable
	if err := record.Apply(inventory.AdjustmentDamage, item.Quantity); err != nil {
		return err
	}
	if err := repos.StockRepo().SaveWithLock(ctx, record); err != nil {
		return err
	}
	movement, err := inventory.NewStockMovement(record, inventory.AdjustmentDamage, item.Quantity, balanceBefore, inventory.MovementSourceOperation, op.OperationNumber, "scrapped return")
	if err != nil {
		return err
	}
	if err := repos.MovementRepo().Create(ctx, movement); err != nil {
		return err
	}
	item.MarkProcessed()
	return nil
}

// Update mutates the header of a non-terminal operation.
func (s *OperationService) Update(ctx context.Context, operationID uuid.UUID, req *UpdateOperationRequest) (*OperationResponse, error) {
	return s.transition(ctx, operationID, func(op *warehouse.Operation) error {
		return op.UpdateHeader(req.AssignedTo, req.Priority, req.Notes)
	})
}

// GetByID retrieves one operation with its items
func (s *OperationService) GetByID(ctx context.Context, operationID uuid.UUID) (*OperationResponse, error) {
	op, err := s.operationRepo.FindByID(ctx, operationID)
	if err != nil {
		return nil, err
	}
	return ToOperationResponse(op), nil
}

// GetByNumber retrieves one operation by its operation number
func (s *OperationService) GetByNumber(ctx context.Context, operationNumber string) (*OperationResponse, error) {
	op, err := s.operationRepo.FindByOperationNumber(ctx, operationNumber)
	if err != nil {
		return nil, err
	}
	return ToOperationResponse(op), nil
}

// ListByStatus lists operations with the given status
func (s *OperationService) ListByStatus(ctx context.Context, status warehouse.OperationStatus, filter shared.Filter) (*shared.Paginated[warehouse.Operation], error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown operation status: "+status.String())
	}
	return s.operationRepo.FindByStatus(ctx, status, filter)
}

// ListByType lists operations with the given type
func (s *OperationService) ListByType(ctx context.Context, opType warehouse.OperationType, filter shared.Filter) (*shared.Paginated[warehouse.Operation], error) {
	if !opType.IsValid() {
		return nil, shared.NewDomainError("INVALID_OPERATION_TYPE", "Unknown operation type: "+opType.String())
	}
	return s.operationRepo.FindByType(ctx, opType, filter)
}

// List lists operations with pagination
func (s *OperationService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[warehouse.Operation], error) {
	return s.operationRepo.FindAll(ctx, filter)
}

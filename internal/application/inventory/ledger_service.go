package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// maxConflictRetries bounds how often an adjustment is retried after losing
// an optimistic-lock race before the conflict surfaces to the caller.
const maxConflictRetries = 3

// LedgerService handles stock ledger operations: receiving stock, applying
// adjustments, transfers, and ledger queries. Every mutation writes a
// movement record in the same transaction.
type LedgerService struct {
	stockRepo      inventory.StockRecordRepository
	movementRepo   inventory.StockMovementRepository
	productRepo    catalog.ProductRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	stockRepo inventory.StockRecordRepository,
	movementRepo inventory.StockMovementRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
) *LedgerService {
	return &LedgerService{
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		productRepo:  productRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *LedgerService) publishDomainEvents(ctx context.Context, root shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	root.ClearDomainEvents()
}

// AddStock receives quantity into the ledger. Every receipt creates its own
// stock record, so two deliveries of the same batch to the same location stay
// separate lines. The movement log rides the same transaction.
func (s *LedgerService) AddStock(ctx context.Context, req *AddStockRequest) (*StockRecordResponse, error) {
	if exists, err := s.productRepo.Exists(ctx, req.ProductID); err != nil {
		return nil, err
	} else if !exists {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist: "+req.ProductID.String())
	}

	var result *inventory.StockRecord
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := inventory.NewStockRecord(req.ProductID, req.BatchNumber, req.ExpiryDate, req.Quantity, inventory.Location{ZoneID: req.ZoneID, PalletID: req.PalletID}, inventory.StockStatus(req.Status))
		if err != nil {
			return err
		}
		if err := repos.StockRepo().Save(ctx, record); err != nil {
			return err
		}
		movement, err := inventory.NewStockMovement(record, inventory.AdjustmentAdd, req.Quantity, decimal.Zero, inventory.MovementSourceReceipt, req.Reference, "")
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}
		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, result)
	return ToStockRecordResponse(result), nil
}


// Adjust applies one quantity adjustment to a stock record. Losing an
// optimistic-lock race triggers a re-read and retry, bounded by
// maxConflictRetries; domain failures such as insufficient stock are never
// retried.
func (s *LedgerService) Adjust(ctx context.Context, recordID uuid.UUID, req *AdjustStockRequest) (*StockRecordResponse, error) {
	adjustment := inventory.AdjustmentType(req.Adjustment)
	if !adjustment.IsValid() {
		return nil, shared.NewDomainError("INVALID_ADJUSTMENT", "Unknown adjustment type: "+req.Adjustment)
	}

	var result *inventory.StockRecord
	var lastErr error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		lastErr = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			record, err := repos.StockRepo().FindByID(ctx, recordID)
			if err != nil {
				return err
			}
			balanceBefore := record.QuantityAvailable
			if err := record.Apply(adjustment, req.Quantity); err != nil {
				return err
			}
			if err := repos.StockRepo().SaveWithLock(ctx, record); err != nil {
				return err
			}
			movement, err := inventory.NewStockMovement(record, adjustment, req.Quantity, balanceBefore, inventory.MovementSourceManual, req.Reference, req.Reason)
			if err != nil {
				return err
			}
			if err := repos.MovementRepo().Create(ctx, movement); err != nil {
				return err
			}
			result = record
			return nil
		})
		if lastErr == nil {
			s.publishDomainEvents(ctx, result)
			return ToStockRecordResponse(result), nil
		}
		if !errors.Is(lastErr, shared.ErrConcurrencyConflict) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// Transfer moves a stock record to another zone/pallet location.
func (s *LedgerService) Transfer(ctx context.Context, recordID uuid.UUID, req *TransferStockRequest) (*StockRecordResponse, error) {
	record, err := s.stockRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	record.TransferLocation(req.ZoneID, req.PalletID)
	if err := s.stockRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, record)
	return ToStockRecordResponse(record), nil
}

// UpdateBatchInfo corrects the batch number and expiry date of a record.
func (s *LedgerService) UpdateBatchInfo(ctx context.Context, recordID uuid.UUID, req *UpdateBatchInfoRequest) (*StockRecordResponse, error) {
	record, err := s.stockRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	record.UpdateBatchInfo(req.BatchNumber, req.ExpiryDate)
	if err := s.stockRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	return ToStockRecordResponse(record), nil
}

// DeleteRecord removes a stock record. Records with outstanding reservations
// cannot be deleted.
func (s *LedgerService) DeleteRecord(ctx context.Context, recordID uuid.UUID) error {
	record, err := s.stockRepo.FindByID(ctx, recordID)
	if err != nil {
		return err
	}
	if record.HasReservations() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a stock record with outstanding reservations")
	}
	return s.stockRepo.Delete(ctx, recordID)
}

// GetByID retrieves one stock record
func (s *LedgerService) GetByID(ctx context.Context, recordID uuid.UUID) (*StockRecordResponse, error) {
	record, err := s.stockRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return ToStockRecordResponse(record), nil
}

// ListByProduct lists all stock records for a product
func (s *LedgerService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*StockRecordResponse, error) {
	records, err := s.stockRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToStockRecordResponses(records), nil
}

// ListByLocation lists stock records at a zone/pallet location
func (s *LedgerService) ListByLocation(ctx context.Context, zoneID, palletID int64) ([]*StockRecordResponse, error) {
	records, err := s.stockRepo.FindByLocation(ctx, zoneID, palletID)
	if err != nil {
		return nil, err
	}
	return ToStockRecordResponses(records), nil
}

// List lists stock records with pagination
func (s *LedgerService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*StockRecordResponse], error) {
	records, err := s.stockRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.stockRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToStockRecordResponses(records), total, filter.Page, filter.PageSize)
	return &page, nil
}

// TotalAvailable sums net available quantity for a product over AVAILABLE
// records.
func (s *LedgerService) TotalAvailable(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	return s.stockRepo.SumNetAvailableByProduct(ctx, productID)
}

// ListExpiringBefore lists stock records expiring before the deadline
func (s *LedgerService) ListExpiringBefore(ctx context.Context, deadline time.Time) ([]*StockRecordResponse, error) {
	records, err := s.stockRepo.FindExpiringBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	return ToStockRecordResponses(records), nil
}

// ListMovements lists the movement log for a stock record, newest first
func (s *LedgerService) ListMovements(ctx context.Context, recordID uuid.UUID, filter shared.Filter) ([]*StockMovementResponse, error) {
	movements, err := s.movementRepo.FindByStockRecord(ctx, recordID, filter)
	if err != nil {
		return nil, err
	}
	return ToStockMovementResponses(movements), nil
}

// ListMovementsByProduct lists the movement log for a product, newest first
func (s *LedgerService) ListMovementsByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]*StockMovementResponse, error) {
	movements, err := s.movementRepo.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	return ToStockMovementResponses(movements), nil
}

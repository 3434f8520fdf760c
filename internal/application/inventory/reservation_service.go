package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// ReservationService allocates stock to orders in first-expiry-first-out
// order. A reservation either commits in full or leaves the ledger untouched.
type ReservationService struct {
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewReservationService creates a new ReservationService
func NewReservationService(txScope TransactionScope) *ReservationService {
	return &ReservationService{txScope: txScope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReservationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Reserve reserves the requested quantity for a product across its batches
// in FEFO order. The plan is computed and applied inside one transaction; a
// concurrent conflict on any touched record triggers a full re-plan, bounded
// by maxConflictRetries.
func (s *ReservationService) Reserve(ctx context.Context, req *ReserveStockRequest) (*ReservationResponse, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	var plan *inventory.ReservationPlan
	var lastErr error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		plan = nil
		lastErr = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			candidates, err := repos.StockRepo().FindAvailableByProduct(ctx, req.ProductID)
			if err != nil {
				return err
			}

			p, err := inventory.PlanFEFOReservation(req.ProductID, req.Quantity, candidates)
			if err != nil {
				return err
			}

			if err := s.applyPlan(ctx, repos, p, req.Reference); err != nil {
				return err
			}
			plan = p
			return nil
		})
		if lastErr == nil {
			if s.eventPublisher != nil {
				_ = s.eventPublisher.Publish(ctx, inventory.NewStockReservedEvent(plan))
			}
			return ToReservationResponse(plan), nil
		}
		if !errors.Is(lastErr, shared.ErrConcurrencyConflict) {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (s *ReservationService) applyPlan(ctx context.Context, repos TransactionalRepositories, plan *inventory.ReservationPlan, reference string) error {
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
		movement, err := inventory.NewStockMovement(record, inventory.AdjustmentReserve, allocation.Quantity, balanceBefore, inventory.MovementSourceOrder, reference, "")
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}
	}
	return nil
}

// Release returns reserved quantity on one stock record to available.
func (s *ReservationService) Release(ctx context.Context, recordID uuid.UUID, quantity decimal.Decimal, reference string) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		record, err := repos.StockRepo().FindByID(ctx, recordID)
		if err != nil {
			return err
		}
		balanceBefore := record.QuantityAvailable
		if err := record.Apply(inventory.AdjustmentRelease, quantity); err != nil {
			return err
		}
		if err := repos.StockRepo().SaveWithLock(ctx, record); err != nil {
			return err
		}
		movement, err := inventory.NewStockMovement(record, inventory.AdjustmentRelease, quantity, balanceBefore, inventory.MovementSourceOrder, reference, "")
		if err != nil {
			return err
		}
		return repos.MovementRepo().Create(ctx, movement)
	})
}

// Package batch provides the application services for batch expiry tracking.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/batch"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// ExpiryService manages batch registration, quantity tracking, quarantine
// holds and the periodic status refresh.
type ExpiryService struct {
	batchRepo   batch.Repository
	productRepo catalog.ProductRepository
	now         func() time.Time
}

// NewExpiryService creates a new ExpiryService
func NewExpiryService(batchRepo batch.Repository, productRepo catalog.ProductRepository) *ExpiryService {
	return &ExpiryService{
		batchRepo:   batchRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

// SetClock overrides the time source. Tests use this to pin derivations.
func (s *ExpiryService) SetClock(now func() time.Time) {
	s.now = now
}

// Register registers a batch for expiry tracking. Batch numbers are unique
// among live records.
func (s *ExpiryService) Register(ctx context.Context, req *RegisterBatchRequest) (*BatchResponse, error) {
	if exists, err := s.productRepo.Exists(ctx, req.ProductID); err != nil {
		return nil, err
	} else if !exists {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist: "+req.ProductID.String())
	}

	if taken, err := s.batchRepo.ExistsByBatchNumber(ctx, req.BatchNumber); err != nil {
		return nil, err
	} else if taken {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Batch number already registered: "+req.BatchNumber)
	}

	now := s.now()
	record, err := batch.NewRecord(req.ProductID, req.BatchNumber, req.ExpiryDate, req.Quantity, batch.Location{ZoneID: req.ZoneID, PalletID: req.PalletID}, now)
	if err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, record); err != nil {
		return nil, err
	}
	return ToBatchResponse(record, now), nil
}

// AdjustQuantity applies a signed delta to the batch quantity and re-derives
// the status.
func (s *ExpiryService) AdjustQuantity(ctx context.Context, batchID uuid.UUID, req *AdjustBatchRequest) (*BatchResponse, error) {
	record, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := record.AdjustQuantity(req.Delta, now); err != nil {
		return nil, err
	}
	if err := s.batchRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	return ToBatchResponse(record, now), nil
}

// MarkAsExpired manually forces a batch into EXPIRED.
func (s *ExpiryService) MarkAsExpired(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	record, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	record.MarkAsExpired()
	if err := s.batchRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	return ToBatchResponse(record, s.now()), nil
}

// Quarantine places a manual hold on a batch.
func (s *ExpiryService) Quarantine(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	record, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	record.Quarantine()
	if err := s.batchRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	return ToBatchResponse(record, s.now()), nil
}

// ReleaseQuarantine clears a manual hold and re-derives the status.
func (s *ExpiryService) ReleaseQuarantine(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	record, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := record.ReleaseQuarantine(now); err != nil {
		return nil, err
	}
	if err := s.batchRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	return ToBatchResponse(record, now), nil
}

// RefreshStatuses re-derives the status of every batch against the current
// date. Run daily by the scheduler and available on demand.
func (s *ExpiryService) RefreshStatuses(ctx context.Context) (*RefreshResult, error) {
	now := s.now()
	result := &RefreshResult{}

	filter := shared.DefaultFilter()
	filter.PageSize = 200
	for page := 1; ; page++ {
		filter.Page = page
		records, err := s.batchRepo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}
		for i := range records {
			record := &records[i]
			result.BatchesChecked++
			if !record.RefreshStatus(now) {
				continue
			}
			if err := s.batchRepo.SaveWithLock(ctx, record); err != nil {
				return nil, err
			}
			result.StatusChanges++
		}
		if len(records) < filter.PageSize {
			break
		}
	}
	return result, nil
}

// GetByID retrieves one batch
func (s *ExpiryService) GetByID(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	record, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return ToBatchResponse(record, s.now()), nil
}

// GetByBatchNumber retrieves a batch by its number
func (s *ExpiryService) GetByBatchNumber(ctx context.Context, batchNumber string) (*BatchResponse, error) {
	record, err := s.batchRepo.FindByBatchNumber(ctx, batchNumber)
	if err != nil {
		return nil, err
	}
	return ToBatchResponse(record, s.now()), nil
}

// ListByProduct lists batches for a product
func (s *ExpiryService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*BatchResponse, error) {
	records, err := s.batchRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(records, s.now()), nil
}

// ListByStatus lists batches with the given status
func (s *ExpiryService) ListByStatus(ctx context.Context, status batch.Status, filter shared.Filter) ([]*BatchResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown batch status: "+status.String())
	}
	records, err := s.batchRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(records, s.now()), nil
}

// ListExpiringWithin lists batches expiring inside the given window
func (s *ExpiryService) ListExpiringWithin(ctx context.Context, window time.Duration) ([]*BatchResponse, error) {
	now := s.now()
	records, err := s.batchRepo.FindExpiringBefore(ctx, now.Add(window))
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(records, now), nil
}

// History lists all records sharing a batch number, newest update first.
// Depleted and re-registered batches show up as separate entries.
func (s *ExpiryService) History(ctx context.Context, batchNumber string) ([]*BatchResponse, error) {
	records, err := s.batchRepo.FindHistoryByBatchNumber(ctx, batchNumber)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(records, s.now()), nil
}

// Delete removes a batch record. Only depleted batches can be deleted.
func (s *ExpiryService) Delete(ctx context.Context, batchID uuid.UUID) error {
	record, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return err
	}
	if !record.IsDepleted() {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a batch with remaining quantity")
	}
	return s.batchRepo.Delete(ctx, batchID)
}

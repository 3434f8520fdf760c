package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// AlertService maintains low-stock alerts against product reorder points.
// The sweep keeps at most one ACTIVE alert per product: re-detections refresh
// the open alert, recoveries resolve it.
type AlertService struct {
	alertRepo      inventory.LowStockAlertRepository
	stockRepo      inventory.StockRecordRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewAlertService creates a new AlertService
func NewAlertService(
	alertRepo inventory.LowStockAlertRepository,
	stockRepo inventory.StockRecordRepository,
	productRepo catalog.ProductRepository,
) *AlertService {
	return &AlertService{
		alertRepo:   alertRepo,
		stockRepo:   stockRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AlertService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *AlertService) publishDomainEvents(ctx context.Context, alert *inventory.LowStockAlert) {
	if s.eventPublisher == nil {
		return
	}
	events := alert.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	alert.ClearDomainEvents()
}

// CheckProducts sweeps every product with a configured reorder point,
// comparing net available quantity against the threshold. Available at or
// below the threshold raises or refreshes the product's alert; strictly above
// resolves any open one. Per-product failures abort the sweep so a partial
// result is never reported as complete.
func (s *AlertService) CheckProducts(ctx context.Context, now time.Time) (*AlertCheckResult, error) {
	products, err := s.productRepo.FindWithReorderPoint(ctx)
	if err != nil {
		return nil, err
	}

	result := &AlertCheckResult{}
	for i := range products {
		product := &products[i]
		if err := s.checkProduct(ctx, product, now, result); err != nil {
			return nil, err
		}
		result.ProductsChecked++
	}
	return result, nil
}

func (s *AlertService) checkProduct(ctx context.Context, product *catalog.Product, now time.Time, result *AlertCheckResult) error {
	if !product.HasReorderPoint() {
		return nil
	}
	available, err := s.stockRepo.SumNetAvailableByProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	threshold := *product.ReorderPoint

	open, err := s.alertRepo.FindOpenByProduct(ctx, product.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}

	if available.LessThanOrEqual(threshold) {
		if open != nil {
			open.Refresh(available, now)
			if err := s.alertRepo.Save(ctx, open); err != nil {
				return err
			}
			result.AlertsRefreshed++
			result.Alerts = append(result.Alerts, ToAlertResponse(open))
			return nil
		}
		alert, err := inventory.NewLowStockAlert(product.ID, threshold, available, now)
		if err != nil {
			return err
		}
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return err
		}
		s.publishDomainEvents(ctx, alert)
		result.AlertsRaised++
		result.Alerts = append(result.Alerts, ToAlertResponse(alert))
		return nil
	}

	if open != nil && open.IsResolvable(available) {
		if open.Resolve(available) {
			if err := s.alertRepo.Save(ctx, open); err != nil {
				return err
			}
			s.publishDomainEvents(ctx, open)
			result.AlertsResolved++
		}
	}
	return nil
}

// ResolveAlert resolves one alert if current availability clears its
// threshold. When availability still sits at or below the threshold, or the
// alert is already resolved, the alert is returned unchanged.
func (s *AlertService) ResolveAlert(ctx context.Context, alertID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}

	available, err := s.stockRepo.SumNetAvailableByProduct(ctx, alert.ProductID)
	if err != nil {
		return nil, err
	}
	if alert.Status != inventory.AlertStatusResolved && !alert.IsResolvable(available) {
		return ToAlertResponse(alert), nil
	}

	if alert.Resolve(available) {
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return nil, err
		}
		s.publishDomainEvents(ctx, alert)
	}
	return ToAlertResponse(alert), nil
}

// AcknowledgeAlert marks an ACTIVE alert as seen by an operator. Alerts in
// any other status are returned unchanged.
func (s *AlertService) AcknowledgeAlert(ctx context.Context, alertID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert.Acknowledge() {
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return nil, err
		}
	}
	return ToAlertResponse(alert), nil
}

// ListByStatus lists alerts with the given status
func (s *AlertService) ListByStatus(ctx context.Context, status inventory.AlertStatus, filter shared.Filter) ([]*AlertResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown alert status: "+status.String())
	}
	alerts, err := s.alertRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	return ToAlertResponses(alerts), nil
}

// ListByProduct lists all alerts for a product
func (s *AlertService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*AlertResponse, error) {
	alerts, err := s.alertRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToAlertResponses(alerts), nil
}

// GetByID retrieves one alert
func (s *AlertService) GetByID(ctx context.Context, alertID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	return ToAlertResponse(alert), nil
}

// CleanupResolved deletes RESOLVED alerts older than the retention cutoff
// and returns the number removed.
func (s *AlertService) CleanupResolved(ctx context.Context, retention time.Duration, now time.Time) (int64, error) {
	return s.alertRepo.DeleteResolvedBefore(ctx, now.Add(-retention))
}

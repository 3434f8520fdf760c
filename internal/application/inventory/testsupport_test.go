package inventory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// MockEventPublisher collects published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// InMemoryStockRepo is a stateful in-memory StockRecordRepository. It honors
// optimistic locking the same way the persistence layer does: SaveWithLock
// fails with ErrConcurrencyConflict when the stored version is not exactly
// one behind the incoming one.
type InMemoryStockRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]inventory.StockRecord

	// FailNextSaves makes that many SaveWithLock calls fail with a
	// concurrency conflict before behaving normally again.
	FailNextSaves int
}

func NewInMemoryStockRepo() *InMemoryStockRepo {
	return &InMemoryStockRepo{records: make(map[uuid.UUID]inventory.StockRecord)}
}

func (r *InMemoryStockRepo) Seed(record *inventory.StockRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ClearDomainEvents()
	r.records[record.ID] = *record
}

func (r *InMemoryStockRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copy := record
	return &copy, nil
}

func (r *InMemoryStockRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0)
	for _, record := range r.records {
		if record.ProductID == productID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryStockRepo) FindAvailableByProduct(_ context.Context, productID uuid.UUID) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0)
	for _, record := range r.records {
		if record.ProductID == productID && record.IsAvailable() {
			result = append(result, record)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return result, nil
}

func (r *InMemoryStockRepo) FindByLocation(_ context.Context, zoneID, palletID int64) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0)
	for _, record := range r.records {
		if record.Location.ZoneID == zoneID && record.Location.PalletID == palletID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryStockRepo) FindByStatus(_ context.Context, status inventory.StockStatus, _ shared.Filter) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0)
	for _, record := range r.records {
		if record.Status == status {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryStockRepo) FindExpiringBefore(_ context.Context, deadline time.Time) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0)
	for _, record := range r.records {
		if record.ExpiryDate != nil && record.ExpiryDate.Before(deadline) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryStockRepo) FindLowStock(_ context.Context, threshold decimal.Decimal) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0)
	for _, record := range r.records {
		if record.QuantityAvailable.LessThanOrEqual(threshold) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryStockRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockRecord, 0, len(r.records))
	for _, record := range r.records {
		result = append(result, record)
	}
	return result, nil
}

func (r *InMemoryStockRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *InMemoryStockRepo) SumNetAvailableByProduct(_ context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, record := range r.records {
		if record.ProductID == productID && record.Status == inventory.StockStatusAvailable {
			total = total.Add(record.NetAvailable())
		}
	}
	return total, nil
}

func (r *InMemoryStockRepo) Save(_ context.Context, record *inventory.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *record
	stored.ClearDomainEvents()
	r.records[record.ID] = stored
	return nil
}

func (r *InMemoryStockRepo) SaveWithLock(_ context.Context, record *inventory.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailNextSaves > 0 {
		r.FailNextSaves--
		return shared.ErrConcurrencyConflict
	}
	stored, ok := r.records[record.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != record.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	next := *record
	next.ClearDomainEvents()
	r.records[record.ID] = next
	return nil
}

func (r *InMemoryStockRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

// InMemoryMovementRepo is an append-only in-memory StockMovementRepository
type InMemoryMovementRepo struct {
	mu        sync.Mutex
	movements []inventory.StockMovement
}

func NewInMemoryMovementRepo() *InMemoryMovementRepo {
	return &InMemoryMovementRepo{movements: make([]inventory.StockMovement, 0)}
}

func (r *InMemoryMovementRepo) Create(_ context.Context, movement *inventory.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *InMemoryMovementRepo) FindByStockRecord(_ context.Context, stockRecordID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockMovement, 0)
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].StockRecordID == stockRecordID {
			result = append(result, r.movements[i])
		}
	}
	return result, nil
}

func (r *InMemoryMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockMovement, 0)
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			result = append(result, r.movements[i])
		}
	}
	return result, nil
}

func (r *InMemoryMovementRepo) All() []inventory.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.StockMovement, len(r.movements))
	copy(result, r.movements)
	return result
}

// InMemoryAlertRepo is a stateful in-memory LowStockAlertRepository
type InMemoryAlertRepo struct {
	mu     sync.Mutex
	alerts map[uuid.UUID]inventory.LowStockAlert
}

func NewInMemoryAlertRepo() *InMemoryAlertRepo {
	return &InMemoryAlertRepo{alerts: make(map[uuid.UUID]inventory.LowStockAlert)}
}

func (r *InMemoryAlertRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.LowStockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copy := alert
	return &copy, nil
}

func (r *InMemoryAlertRepo) FindOpenByProduct(_ context.Context, productID uuid.UUID) (*inventory.LowStockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, alert := range r.alerts {
		if alert.ProductID == productID && alert.Status != inventory.AlertStatusResolved {
			copy := alert
			return &copy, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *InMemoryAlertRepo) FindByStatus(_ context.Context, status inventory.AlertStatus, _ shared.Filter) ([]inventory.LowStockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.LowStockAlert, 0)
	for _, alert := range r.alerts {
		if alert.Status == status {
			result = append(result, alert)
		}
	}
	return result, nil
}

func (r *InMemoryAlertRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]inventory.LowStockAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]inventory.LowStockAlert, 0)
	for _, alert := range r.alerts {
		if alert.ProductID == productID {
			result = append(result, alert)
		}
	}
	return result, nil
}

func (r *InMemoryAlertRepo) Save(_ context.Context, alert *inventory.LowStockAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *alert
	stored.ClearDomainEvents()
	r.alerts[alert.ID] = stored
	return nil
}

func (r *InMemoryAlertRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.alerts, id)
	return nil
}

func (r *InMemoryAlertRepo) DeleteResolvedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, alert := range r.alerts {
		if alert.Status == inventory.AlertStatusResolved && alert.AlertDate.Before(cutoff) {
			delete(r.alerts, id)
			deleted++
		}
	}
	return deleted, nil
}

// InMemoryProductRepo is a stateful in-memory catalog.ProductRepository
type InMemoryProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]catalog.Product
}

func NewInMemoryProductRepo() *InMemoryProductRepo {
	return &InMemoryProductRepo{products: make(map[uuid.UUID]catalog.Product)}
}

func (r *InMemoryProductRepo) Seed(product *catalog.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
}

func (r *InMemoryProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copy := product
	return &copy, nil
}

func (r *InMemoryProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, product := range r.products {
		if product.SKU == sku {
			copy := product
			return &copy, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *InMemoryProductRepo) FindWithReorderPoint(_ context.Context) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]catalog.Product, 0)
	for _, product := range r.products {
		if product.HasReorderPoint() {
			result = append(result, product)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return result, nil
}

func (r *InMemoryProductRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.products[id]
	return ok, nil
}

func (r *InMemoryProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

package batch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/batch"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

// InMemoryBatchRepo is a stateful in-memory batch.Repository. Deleted records
// stay around for history queries, mirroring the soft delete in persistence.
type InMemoryBatchRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]batch.Record
	deleted map[uuid.UUID]batch.Record
}

func NewInMemoryBatchRepo() *InMemoryBatchRepo {
	return &InMemoryBatchRepo{
		records: make(map[uuid.UUID]batch.Record),
		deleted: make(map[uuid.UUID]batch.Record),
	}
}

func (r *InMemoryBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*batch.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	found := record
	return &found, nil
}

func (r *InMemoryBatchRepo) FindByBatchNumber(_ context.Context, batchNumber string) (*batch.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.BatchNumber == batchNumber {
			found := record
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *InMemoryBatchRepo) ExistsByBatchNumber(_ context.Context, batchNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.BatchNumber == batchNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryBatchRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]batch.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]batch.Record, 0)
	for _, record := range r.records {
		if record.ProductID == productID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryBatchRepo) FindByStatus(_ context.Context, status batch.Status, _ shared.Filter) ([]batch.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]batch.Record, 0)
	for _, record := range r.records {
		if record.Status == status {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryBatchRepo) FindByLocation(_ context.Context, zoneID, palletID int64) ([]batch.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]batch.Record, 0)
	for _, record := range r.records {
		if record.Location.ZoneID == zoneID && record.Location.PalletID == palletID {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryBatchRepo) FindExpiringBefore(_ context.Context, deadline time.Time) ([]batch.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]batch.Record, 0)
	for _, record := range r.records {
		if record.Status != batch.StatusExpired && record.ExpiryDate.Before(deadline) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryBatchRepo) FindExpired(_ context.Context, now time.Time) ([]batch.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]batch.Record, 0)
	for _, record := range r.records {
		if record.IsExpired(now) {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryBatchRepo) FindHistoryByBatchNumber(_ context.Context, batchNumber string) ([]batch.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]batch.Record, 0)
	for _, record := range r.records {
		if record.BatchNumber == batchNumber {
			result = append(result, record)
		}
	}
	for _, record := range r.deleted {
		if record.BatchNumber == batchNumber {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *InMemoryBatchRepo) FindAll(_ context.Context, filter shared.Filter) ([]batch.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]batch.Record, 0, len(r.records))
	for _, record := range r.records {
		all = append(all, record)
	}
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(all) {
		return nil, nil
	}
	end := start + filter.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *InMemoryBatchRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

func (r *InMemoryBatchRepo) Save(_ context.Context, record *batch.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ID] = *record
	return nil
}

func (r *InMemoryBatchRepo) SaveWithLock(_ context.Context, record *batch.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[record.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != record.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.records[record.ID] = *record
	return nil
}

func (r *InMemoryBatchRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return shared.ErrNotFound
	}
	r.deleted[id] = record
	delete(r.records, id)
	return nil
}

type expiryFixture struct {
	service  *ExpiryService
	batches  *InMemoryBatchRepo
	products *catalogRepo
	product  *catalog.Product
}

type catalogRepo struct {
	products map[uuid.UUID]catalog.Product
}

func (r *catalogRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	found := product
	return &found, nil
}

func (r *catalogRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.SKU == sku {
			found := product
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *catalogRepo) FindWithReorderPoint(_ context.Context) ([]catalog.Product, error) {
	return nil, nil
}

func (r *catalogRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.products[id]
	return ok, nil
}

func (r *catalogRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = *product
	return nil
}

func newExpiryFixture(t *testing.T) *expiryFixture {
	t.Helper()
	batches := NewInMemoryBatchRepo()
	product, err := catalog.NewProduct("SKU-001", "Metformin 850mg")
	require.NoError(t, err)
	products := &catalogRepo{products: map[uuid.UUID]catalog.Product{product.ID: *product}}

	service := NewExpiryService(batches, products)
	service.SetClock(func() time.Time { return testNow })

	return &expiryFixture{service: service, batches: batches, products: products, product: product}
}

func (f *expiryFixture) register(t *testing.T, batchNumber string, expiry time.Time, quantity int64) *BatchResponse {
	t.Helper()
	resp, err := f.service.Register(context.Background(), &RegisterBatchRequest{
		ProductID:   f.product.ID,
		BatchNumber: batchNumber,
		ExpiryDate:  expiry,
		Quantity:    decimal.NewFromInt(quantity),
		ZoneID:      1,
		PalletID:    1,
	})
	require.NoError(t, err)
	return resp
}

func TestExpiryService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers batch with derived status", func(t *testing.T) {
		f := newExpiryFixture(t)

		resp := f.register(t, "LOT-001", testNow.AddDate(1, 0, 0), 100)

		assert.Equal(t, "ACTIVE", resp.Status)
		assert.Equal(t, decimal.NewFromInt(100), resp.QuantityCurrent)
	})

	t.Run("rejects duplicate batch number", func(t *testing.T) {
		f := newExpiryFixture(t)
		f.register(t, "LOT-001", testNow.AddDate(1, 0, 0), 100)

		_, err := f.service.Register(ctx, &RegisterBatchRequest{
			ProductID:   f.product.ID,
			BatchNumber: "LOT-001",
			ExpiryDate:  testNow.AddDate(1, 0, 0),
			Quantity:    decimal.NewFromInt(10),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		f := newExpiryFixture(t)

		_, err := f.service.Register(ctx, &RegisterBatchRequest{
			ProductID:   uuid.New(),
			BatchNumber: "LOT-001",
			ExpiryDate:  testNow.AddDate(1, 0, 0),
			Quantity:    decimal.NewFromInt(10),
		})

		require.Error(t, err)
	})

	t.Run("rejects past expiry date", func(t *testing.T) {
		f := newExpiryFixture(t)

		_, err := f.service.Register(ctx, &RegisterBatchRequest{
			ProductID:   f.product.ID,
			BatchNumber: "LOT-001",
			ExpiryDate:  testNow.AddDate(0, 0, -1),
			Quantity:    decimal.NewFromInt(10),
		})

		require.Error(t, err)
	})

	t.Run("batch number can be reused after depletion and delete", func(t *testing.T) {
		f := newExpiryFixture(t)
		first := f.register(t, "LOT-001", testNow.AddDate(1, 0, 0), 100)
		_, err := f.service.AdjustQuantity(ctx, first.ID, &AdjustBatchRequest{Delta: decimal.NewFromInt(-100)})
		require.NoError(t, err)
		require.NoError(t, f.service.Delete(ctx, first.ID))

		second := f.register(t, "LOT-001", testNow.AddDate(2, 0, 0), 50)

		history, err := f.service.History(ctx, "LOT-001")
		require.NoError(t, err)
		assert.Len(t, history, 2)
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestExpiryService_RefreshStatuses(t *testing.T) {
	ctx := context.Background()
	f := newExpiryFixture(t)
	f.register(t, "LOT-FAR", testNow.AddDate(1, 0, 0), 100)
	near := f.register(t, "LOT-NEAR", testNow.AddDate(0, 2, 0), 100)

	service := f.service
	service.SetClock(func() time.Time { return testNow.AddDate(0, 1, 15) })

	result, err := service.RefreshStatuses(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, result.BatchesChecked)
	assert.Equal(t, 1, result.StatusChanges)

	refreshed, err := service.GetByID(ctx, near.ID)
	require.NoError(t, err)
	assert.Equal(t, "EXPIRING_SOON", refreshed.Status)
}

func TestExpiryService_QuarantineFlow(t *testing.T) {
	ctx := context.Background()
	f := newExpiryFixture(t)
	created := f.register(t, "LOT-001", testNow.AddDate(1, 0, 0), 100)

	held, err := f.service.Quarantine(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "QUARANTINED", held.Status)

	_, err = f.service.RefreshStatuses(ctx)
	require.NoError(t, err)
	still, err := f.service.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "QUARANTINED", still.Status)

	released, err := f.service.ReleaseQuarantine(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", released.Status)

	_, err = f.service.ReleaseQuarantine(ctx, created.ID)
	require.Error(t, err)
}

func TestExpiryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses to delete batch with quantity", func(t *testing.T) {
		f := newExpiryFixture(t)
		created := f.register(t, "LOT-001", testNow.AddDate(1, 0, 0), 100)

		err := f.service.Delete(ctx, created.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("deletes depleted batch", func(t *testing.T) {
		f := newExpiryFixture(t)
		created := f.register(t, "LOT-001", testNow.AddDate(1, 0, 0), 100)
		_, err := f.service.AdjustQuantity(ctx, created.ID, &AdjustBatchRequest{Delta: decimal.NewFromInt(-100)})
		require.NoError(t, err)

		require.NoError(t, f.service.Delete(ctx, created.ID))

		_, err = f.service.GetByID(ctx, created.ID)
		require.Error(t, err)
	})
}

package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
)

func newReservationFixture(t *testing.T) (*ReservationService, *InMemoryStockRepo, *InMemoryMovementRepo, *catalog.Product) {
	t.Helper()
	stocks := NewInMemoryStockRepo()
	movements := NewInMemoryMovementRepo()
	alerts := NewInMemoryAlertRepo()

	product, err := catalog.NewProduct("SKU-001", "Ibuprofen 200mg")
	require.NoError(t, err)

	scope := NewNoOpTransactionScope(stocks, movements, alerts)
	return NewReservationService(scope), stocks, movements, product
}

func seedBatch(t *testing.T, stocks *InMemoryStockRepo, product *catalog.Product, batch string, expiry *time.Time, quantity int64) *inventory.StockRecord {
	t.Helper()
	record, err := inventory.NewStockRecord(product.ID, batch, expiry, decimal.NewFromInt(quantity), inventory.Location{ZoneID: 1, PalletID: 1}, inventory.StockStatusAvailable)
	require.NoError(t, err)
	stocks.Seed(record)
	return record
}

func expiryOn(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestReservationService_Reserve(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves across batches in expiry order", func(t *testing.T) {
		service, stocks, movements, product := newReservationFixture(t)
		late := seedBatch(t, stocks, product, "LOT-LATE", expiryOn(2027, 1, 1), 100)
		early := seedBatch(t, stocks, product, "LOT-EARLY", expiryOn(2026, 6, 1), 40)

		resp, err := service.Reserve(ctx, &ReserveStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.NewFromInt(70),
			Reference: "SO-1001",
		})

		require.NoError(t, err)
		require.Len(t, resp.Allocations, 2)
		assert.Equal(t, "LOT-EARLY", resp.Allocations[0].BatchNumber)
		assert.Equal(t, decimal.NewFromInt(40), resp.Allocations[0].Quantity)
		assert.Equal(t, "LOT-LATE", resp.Allocations[1].BatchNumber)
		assert.Equal(t, decimal.NewFromInt(30), resp.Allocations[1].Quantity)

		earlyStored, err := stocks.FindByID(ctx, early.ID)
		require.NoError(t, err)
		assert.True(t, earlyStored.QuantityAvailable.IsZero())
		assert.Equal(t, decimal.NewFromInt(40), earlyStored.QuantityReserved)

		lateStored, err := stocks.FindByID(ctx, late.ID)
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(70), lateStored.QuantityAvailable)
		assert.Equal(t, decimal.NewFromInt(30), lateStored.QuantityReserved)

		moves := movements.All()
		require.Len(t, moves, 2)
		for _, move := range moves {
			assert.Equal(t, inventory.AdjustmentReserve, move.Adjustment)
			assert.Equal(t, inventory.MovementSourceOrder, move.Source)
			assert.Equal(t, "SO-1001", move.SourceReference)
		}
	})

	t.Run("insufficient stock reserves nothing", func(t *testing.T) {
		service, stocks, movements, product := newReservationFixture(t)
		record := seedBatch(t, stocks, product, "LOT-A", expiryOn(2026, 6, 1), 30)

		_, err := service.Reserve(ctx, &ReserveStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.NewFromInt(50),
		})

		require.Error(t, err)
		var insufficient *inventory.InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, decimal.NewFromInt(20), insufficient.Shortfall)

		stored, err := stocks.FindByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(30), stored.QuantityAvailable)
		assert.True(t, stored.QuantityReserved.IsZero())
		assert.Empty(t, movements.All())
	})

	t.Run("publishes reservation event", func(t *testing.T) {
		service, stocks, _, product := newReservationFixture(t)
		seedBatch(t, stocks, product, "LOT-A", expiryOn(2026, 6, 1), 100)
		publisher := NewMockEventPublisher()
		service.SetEventPublisher(publisher)

		_, err := service.Reserve(ctx, &ReserveStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.NewFromInt(10),
		})

		require.NoError(t, err)
		assert.Len(t, publisher.GetEventsByType(inventory.EventTypeStockReserved), 1)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		service, _, _, product := newReservationFixture(t)

		_, err := service.Reserve(ctx, &ReserveStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.Zero,
		})

		require.Error(t, err)
	})
}

func TestReservationService_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("returns reserved quantity to available", func(t *testing.T) {
		service, stocks, movements, product := newReservationFixture(t)
		record := seedBatch(t, stocks, product, "LOT-A", nil, 100)
		_, err := service.Reserve(ctx, &ReserveStockRequest{
			ProductID: product.ID,
			Quantity:  decimal.NewFromInt(60),
		})
		require.NoError(t, err)

		require.NoError(t, service.Release(ctx, record.ID, decimal.NewFromInt(25), "SO-1001"))

		stored, err := stocks.FindByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(65), stored.QuantityAvailable)
		assert.Equal(t, decimal.NewFromInt(35), stored.QuantityReserved)
		assert.Len(t, movements.All(), 2)
	})

	t.Run("fails when releasing more than reserved", func(t *testing.T) {
		service, stocks, _, product := newReservationFixture(t)
		record := seedBatch(t, stocks, product, "LOT-A", nil, 100)

		err := service.Release(ctx, record.ID, decimal.NewFromInt(1), "")

		require.Error(t, err)
	})
}

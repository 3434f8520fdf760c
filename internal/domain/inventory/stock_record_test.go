package inventory

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStockRecord(t *testing.T, quantity int64) *StockRecord {
	t.Helper()
	record, err := NewStockRecord(
		uuid.New(),
		"LOT-001",
		nil,
		decimal.NewFromInt(quantity),
		Location{ZoneID: 1, PalletID: 10},
		StockStatusAvailable,
	)
	require.NoError(t, err)
	record.ClearDomainEvents()
	return record
}

func TestNewStockRecord(t *testing.T) {
	productID := uuid.New()
	expiry := time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("creates record successfully", func(t *testing.T) {
		record, err := NewStockRecord(productID, "LOT-001", &expiry, decimal.NewFromInt(100), Location{ZoneID: 2, PalletID: 7}, StockStatusAvailable)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, record.ID)
		assert.Equal(t, productID, record.ProductID)
		assert.Equal(t, "LOT-001", record.BatchNumber)
		assert.Equal(t, decimal.NewFromInt(100), record.QuantityAvailable)
		assert.True(t, record.QuantityReserved.IsZero())
		assert.Equal(t, StockStatusAvailable, record.Status)
		assert.Equal(t, 1, record.Version)
	})

	t.Run("defaults empty status to AVAILABLE", func(t *testing.T) {
		record, err := NewStockRecord(productID, "", nil, decimal.Zero, Location{}, "")

		require.NoError(t, err)
		assert.Equal(t, StockStatusAvailable, record.Status)
	})

	t.Run("emits StockReceived event", func(t *testing.T) {
		record, err := NewStockRecord(productID, "LOT-001", nil, decimal.NewFromInt(5), Location{}, StockStatusAvailable)

		require.NoError(t, err)
		events := record.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockReceived, events[0].EventType())
	})

	t.Run("fails with nil product ID", func(t *testing.T) {
		record, err := NewStockRecord(uuid.Nil, "LOT-001", nil, decimal.NewFromInt(1), Location{}, StockStatusAvailable)

		require.Error(t, err)
		assert.Nil(t, record)
		assert.Contains(t, err.Error(), "Product ID")
	})

	t.Run("fails with negative quantity", func(t *testing.T) {
		record, err := NewStockRecord(productID, "", nil, decimal.NewFromInt(-1), Location{}, StockStatusAvailable)

		require.Error(t, err)
		assert.Nil(t, record)
	})

	t.Run("fails with unknown status", func(t *testing.T) {
		record, err := NewStockRecord(productID, "", nil, decimal.NewFromInt(1), Location{}, "BROKEN")

		require.Error(t, err)
		assert.Nil(t, record)
	})
}

func TestStockRecord_Apply(t *testing.T) {
	t.Run("ADD increases available", func(t *testing.T) {
		record := createTestStockRecord(t, 100)

		err := record.Apply(AdjustmentAdd, decimal.NewFromInt(40))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(140), record.QuantityAvailable)
		assert.Equal(t, 2, record.Version)
	})

	t.Run("REMOVE decreases available", func(t *testing.T) {
		record := createTestStockRecord(t, 100)

		err := record.Apply(AdjustmentRemove, decimal.NewFromInt(30))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(70), record.QuantityAvailable)
	})

	t.Run("REMOVE beyond available fails with shortfall", func(t *testing.T) {
		record := createTestStockRecord(t, 10)

		err := record.Apply(AdjustmentRemove, decimal.NewFromInt(25))

		require.Error(t, err)
		var insufficient *InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, decimal.NewFromInt(15), insufficient.Shortfall)
		assert.Equal(t, decimal.NewFromInt(10), record.QuantityAvailable)
	})

	t.Run("RESERVE moves quantity to reserved", func(t *testing.T) {
		record := createTestStockRecord(t, 100)

		err := record.Apply(AdjustmentReserve, decimal.NewFromInt(60))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(40), record.QuantityAvailable)
		assert.Equal(t, decimal.NewFromInt(60), record.QuantityReserved)
	})

	t.Run("RELEASE moves quantity back to available", func(t *testing.T) {
		record := createTestStockRecord(t, 100)
		require.NoError(t, record.Apply(AdjustmentReserve, decimal.NewFromInt(60)))

		err := record.Apply(AdjustmentRelease, decimal.NewFromInt(25))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(65), record.QuantityAvailable)
		assert.Equal(t, decimal.NewFromInt(35), record.QuantityReserved)
	})

	t.Run("RELEASE beyond reserved fails", func(t *testing.T) {
		record := createTestStockRecord(t, 100)
		require.NoError(t, record.Apply(AdjustmentReserve, decimal.NewFromInt(10)))

		err := record.Apply(AdjustmentRelease, decimal.NewFromInt(11))

		require.Error(t, err)
		var insufficient *InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, decimal.NewFromInt(1), insufficient.Shortfall)
	})

	t.Run("RESERVE then RELEASE round-trips", func(t *testing.T) {
		record := createTestStockRecord(t, 100)

		require.NoError(t, record.Apply(AdjustmentReserve, decimal.NewFromInt(42)))
		require.NoError(t, record.Apply(AdjustmentRelease, decimal.NewFromInt(42)))

		assert.Equal(t, decimal.NewFromInt(100), record.QuantityAvailable)
		assert.True(t, record.QuantityReserved.IsZero())
	})

	t.Run("DAMAGE removes quantity and marks record damaged", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Apply(AdjustmentDamage, decimal.NewFromInt(50))

		require.NoError(t, err)
		assert.True(t, record.QuantityAvailable.IsZero())
		assert.Equal(t, StockStatusDamaged, record.Status)
	})

	t.Run("EXPIRED removes quantity and marks record expired", func(t *testing.T) {
		record := createTestStockRecord(t, 50)

		err := record.Apply(AdjustmentExpired, decimal.NewFromInt(20))

		require.NoError(t, err)
		assert.Equal(t, decimal.NewFromInt(30), record.QuantityAvailable)
		assert.Equal(t, StockStatusExpired, record.Status)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		record := createTestStockRecord(t, 100)

		err := record.Apply(AdjustmentAdd, decimal.Zero)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "positive")
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		record := createTestStockRecord(t, 100)

		err := record.Apply(AdjustmentAdd, decimal.NewFromInt(-5))

		require.Error(t, err)
	})

	t.Run("rejects unknown adjustment type", func(t *testing.T) {
		record := createTestStockRecord(t, 100)

		err := record.Apply(AdjustmentType("SHRINK"), decimal.NewFromInt(1))

		require.Error(t, err)
	})

	t.Run("failed adjustment leaves record untouched", func(t *testing.T) {
		record := createTestStockRecord(t, 10)
		versionBefore := record.Version

		_ = record.Apply(AdjustmentRemove, decimal.NewFromInt(999))

		assert.Equal(t, decimal.NewFromInt(10), record.QuantityAvailable)
		assert.Equal(t, versionBefore, record.Version)
		assert.Empty(t, record.GetDomainEvents())
	})

	t.Run("emits StockAdjusted event on success", func(t *testing.T) {
		record := createTestStockRecord(t, 10)

		require.NoError(t, record.Apply(AdjustmentAdd, decimal.NewFromInt(5)))

		events := record.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockAdjusted, events[0].EventType())
	})
}

func TestStockRecord_NetAvailable(t *testing.T) {
	record := createTestStockRecord(t, 100)
	require.NoError(t, record.Apply(AdjustmentReserve, decimal.NewFromInt(30)))

	assert.Equal(t, decimal.NewFromInt(70), record.NetAvailable())
	assert.True(t, record.HasReservations())
}

func TestStockRecord_IsAvailable(t *testing.T) {
	t.Run("available with positive net", func(t *testing.T) {
		record := createTestStockRecord(t, 10)
		assert.True(t, record.IsAvailable())
	})

	t.Run("not available when fully reserved", func(t *testing.T) {
		record := createTestStockRecord(t, 10)
		require.NoError(t, record.Apply(AdjustmentReserve, decimal.NewFromInt(10)))
		assert.False(t, record.IsAvailable())
	})

	t.Run("not available when quarantined", func(t *testing.T) {
		record := createTestStockRecord(t, 10)
		require.NoError(t, record.SetStatus(StockStatusQuarantined))
		assert.False(t, record.IsAvailable())
	})
}

func TestStockRecord_TransferLocation(t *testing.T) {
	record := createTestStockRecord(t, 100)

	record.TransferLocation(5, 55)

	assert.Equal(t, int64(5), record.Location.ZoneID)
	assert.Equal(t, int64(55), record.Location.PalletID)
	assert.Equal(t, decimal.NewFromInt(100), record.QuantityAvailable)
	events := record.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStockTransferred, events[0].EventType())
}

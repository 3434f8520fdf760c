package batch

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func createTestBatch(t *testing.T, expiryDate time.Time) *Record {
	t.Helper()
	record, err := NewRecord(uuid.New(), "LOT-2026-001", expiryDate, decimal.NewFromInt(100), Location{ZoneID: 1, PalletID: 1}, testNow)
	require.NoError(t, err)
	return record
}

func TestNewRecord(t *testing.T) {
	productID := uuid.New()
	expiry := testNow.AddDate(0, 6, 0)

	t.Run("creates batch successfully", func(t *testing.T) {
		record, err := NewRecord(productID, "LOT-001", expiry, decimal.NewFromInt(50), Location{ZoneID: 2, PalletID: 3}, testNow)

		require.NoError(t, err)
		assert.Equal(t, productID, record.ProductID)
		assert.Equal(t, "LOT-001", record.BatchNumber)
		assert.Equal(t, StatusActive, record.Status)
	})

	t.Run("near expiry starts EXPIRING_SOON", func(t *testing.T) {
		record, err := NewRecord(productID, "LOT-002", testNow.AddDate(0, 0, 10), decimal.NewFromInt(50), Location{}, testNow)

		require.NoError(t, err)
		assert.Equal(t, StatusExpiringSoon, record.Status)
	})

	t.Run("expiring today is accepted", func(t *testing.T) {
		record, err := NewRecord(productID, "LOT-003", testNow, decimal.NewFromInt(50), Location{}, testNow)

		require.NoError(t, err)
		assert.Equal(t, StatusExpiringSoon, record.Status)
	})

	t.Run("fails with past expiry date", func(t *testing.T) {
		record, err := NewRecord(productID, "LOT-004", testNow.AddDate(0, 0, -1), decimal.NewFromInt(50), Location{}, testNow)

		require.Error(t, err)
		assert.Nil(t, record)
		assert.Contains(t, err.Error(), "past")
	})

	t.Run("fails with empty batch number", func(t *testing.T) {
		record, err := NewRecord(productID, "", expiry, decimal.NewFromInt(50), Location{}, testNow)

		require.Error(t, err)
		assert.Nil(t, record)
	})

	t.Run("fails with negative quantity", func(t *testing.T) {
		record, err := NewRecord(productID, "LOT-005", expiry, decimal.NewFromInt(-1), Location{}, testNow)

		require.Error(t, err)
		assert.Nil(t, record)
	})
}

func TestDeriveStatus(t *testing.T) {
	farOut := testNow.AddDate(1, 0, 0)
	soon := testNow.AddDate(0, 0, 30)
	elapsed := testNow.AddDate(0, 0, -1)

	t.Run("far-out expiry is ACTIVE", func(t *testing.T) {
		assert.Equal(t, StatusActive, DeriveStatus(farOut, StatusActive, testNow))
	})

	t.Run("within 30 days is EXPIRING_SOON", func(t *testing.T) {
		assert.Equal(t, StatusExpiringSoon, DeriveStatus(soon, StatusActive, testNow))
	})

	t.Run("31 days out is ACTIVE", func(t *testing.T) {
		assert.Equal(t, StatusActive, DeriveStatus(testNow.AddDate(0, 0, 31), StatusActive, testNow))
	})

	t.Run("elapsed expiry is EXPIRED", func(t *testing.T) {
		assert.Equal(t, StatusExpired, DeriveStatus(elapsed, StatusActive, testNow))
	})

	t.Run("quarantine is sticky for live batches", func(t *testing.T) {
		assert.Equal(t, StatusQuarantined, DeriveStatus(farOut, StatusQuarantined, testNow))
		assert.Equal(t, StatusQuarantined, DeriveStatus(soon, StatusQuarantined, testNow))
	})

	t.Run("elapsed expiry overrides quarantine", func(t *testing.T) {
		assert.Equal(t, StatusExpired, DeriveStatus(elapsed, StatusQuarantined, testNow))
	})
}

func TestRecord_RefreshStatus(t *testing.T) {
	t.Run("reports change when window is entered", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(0, 2, 0))
		require.Equal(t, StatusActive, record.Status)

		changed := record.RefreshStatus(testNow.AddDate(0, 1, 15))

		assert.True(t, changed)
		assert.Equal(t, StatusExpiringSoon, record.Status)
	})

	t.Run("no change reports false", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(1, 0, 0))
		versionBefore := record.Version

		assert.False(t, record.RefreshStatus(testNow))
		assert.Equal(t, versionBefore, record.Version)
	})
}

func TestRecord_AdjustQuantity(t *testing.T) {
	t.Run("applies positive and negative deltas", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(1, 0, 0))

		require.NoError(t, record.AdjustQuantity(decimal.NewFromInt(50), testNow))
		assert.Equal(t, decimal.NewFromInt(150), record.QuantityCurrent)

		require.NoError(t, record.AdjustQuantity(decimal.NewFromInt(-150), testNow))
		assert.True(t, record.IsDepleted())
	})

	t.Run("rejects zero delta", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(1, 0, 0))

		err := record.AdjustQuantity(decimal.Zero, testNow)

		require.Error(t, err)
	})

	t.Run("rejects delta driving quantity negative", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(1, 0, 0))

		err := record.AdjustQuantity(decimal.NewFromInt(-101), testNow)

		require.Error(t, err)
		assert.Equal(t, decimal.NewFromInt(100), record.QuantityCurrent)
	})

	t.Run("re-derives status from reference time", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(0, 2, 0))

		require.NoError(t, record.AdjustQuantity(decimal.NewFromInt(-10), testNow.AddDate(0, 1, 20)))

		assert.Equal(t, StatusExpiringSoon, record.Status)
	})
}

func TestRecord_Quarantine(t *testing.T) {
	t.Run("quarantine holds through refresh", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(1, 0, 0))

		record.Quarantine()
		record.RefreshStatus(testNow)

		assert.Equal(t, StatusQuarantined, record.Status)
	})

	t.Run("release re-derives status", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(0, 0, 10))
		record.Quarantine()

		require.NoError(t, record.ReleaseQuarantine(testNow))

		assert.Equal(t, StatusExpiringSoon, record.Status)
	})

	t.Run("release fails when not quarantined", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(1, 0, 0))

		err := record.ReleaseQuarantine(testNow)

		require.Error(t, err)
	})

	t.Run("refresh past expiry overrides quarantine", func(t *testing.T) {
		record := createTestBatch(t, testNow.AddDate(0, 0, 5))
		record.Quarantine()

		record.RefreshStatus(testNow.AddDate(0, 0, 6))

		assert.Equal(t, StatusExpired, record.Status)
	})
}

func TestRecord_DaysUntilExpiry(t *testing.T) {
	record := createTestBatch(t, testNow.AddDate(0, 0, 10))

	assert.Equal(t, 10, record.DaysUntilExpiry(testNow))
	assert.Equal(t, -2, record.DaysUntilExpiry(testNow.AddDate(0, 0, 12)))
	assert.False(t, record.IsExpired(testNow))
	assert.True(t, record.IsExpired(testNow.AddDate(0, 0, 11)))
}

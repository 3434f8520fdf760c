package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder("  ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("ascending; DROP TABLE stock_records"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "expiry_date",
		ValidateSortField("expiry_date", StockRecordSortFields, "created_at"))
	assert.Equal(t, "created_at",
		ValidateSortField("", StockRecordSortFields, "created_at"))
	assert.Equal(t, "created_at",
		ValidateSortField("nonexistent_column", StockRecordSortFields, "created_at"))
	assert.Equal(t, "created_at",
		ValidateSortField("expiry_date; --", StockRecordSortFields, "created_at"))
}

func TestSortFieldWhitelists(t *testing.T) {
	// Each whitelist covers its table's sortable columns and nothing leaks
	// across tables.
	assert.True(t, StockRecordSortFields["quantity_available"])
	assert.False(t, StockRecordSortFields["operation_number"])

	assert.True(t, StockMovementSortFields["adjustment"])
	assert.False(t, StockMovementSortFields["expiry_date"])

	assert.True(t, BatchRecordSortFields["expiry_date"])
	assert.True(t, OperationSortFields["operation_number"])
	assert.True(t, AlertSortFields["alert_date"])
	assert.True(t, ProductSortFields["sku"])
	assert.False(t, ProductSortFields["quantity_available"])
}

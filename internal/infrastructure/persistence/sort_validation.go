package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// StockRecordSortFields contains allowed sort fields for stock records
var StockRecordSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"product_id":         true,
	"batch_number":       true,
	"expiry_date":        true,
	"quantity_available": true,
	"quantity_reserved":  true,
	"zone_id":            true,
	"pallet_id":          true,
	"status":             true,
}

// StockMovementSortFields contains allowed sort fields for stock movements
var StockMovementSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"stock_record_id": true,
	"product_id":      true,
	"adjustment":      true,
	"quantity":        true,
	"source":          true,
}

// BatchRecordSortFields contains allowed sort fields for batch records
var BatchRecordSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"batch_number": true,
	"product_id":   true,
	"expiry_date":  true,
	"quantity":     true,
	"status":       true,
}

// OperationSortFields contains allowed sort fields for warehouse operations
var OperationSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"operation_number": true,
	"type":             true,
	"status":           true,
	"reference_number": true,
	"priority":         true,
	"started_at":       true,
	"completed_at":     true,
}

// AlertSortFields contains allowed sort fields for low stock alerts
var AlertSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"product_id":         true,
	"status":             true,
	"alert_date":         true,
	"current_quantity":   true,
	"threshold_quantity": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"sku":           true,
	"name":          true,
	"reorder_point": true,
}

package batch

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/batch"
)

// RegisterBatchRequest registers a new batch for expiry tracking
type RegisterBatchRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber string          `json:"batch_number" binding:"required"`
	ExpiryDate  time.Time       `json:"expiry_date" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	ZoneID      int64           `json:"zone_id"`
	PalletID    int64           `json:"pallet_id"`
}

// AdjustBatchRequest applies a signed quantity delta to a batch
type AdjustBatchRequest struct {
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

// BatchResponse is the read model for a batch record
type BatchResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	QuantityCurrent decimal.Decimal `json:"quantity_current"`
	ZoneID          int64           `json:"zone_id"`
	PalletID        int64           `json:"pallet_id"`
	Status          string          `json:"status"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToBatchResponse converts a batch record to its response DTO
func ToBatchResponse(record *batch.Record, now time.Time) *BatchResponse {
	return &BatchResponse{
		ID:              record.ID,
		ProductID:       record.ProductID,
		BatchNumber:     record.BatchNumber,
		ExpiryDate:      record.ExpiryDate,
		QuantityCurrent: record.QuantityCurrent,
		ZoneID:          record.Location.ZoneID,
		PalletID:        record.Location.PalletID,
		Status:          record.Status.String(),
		DaysUntilExpiry: record.DaysUntilExpiry(now),
		Version:         record.Version,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

// ToBatchResponses converts a slice of batch records
func ToBatchResponses(records []batch.Record, now time.Time) []*BatchResponse {
	responses := make([]*BatchResponse, len(records))
	for i := range records {
		responses[i] = ToBatchResponse(&records[i], now)
	}
	return responses
}

// RefreshResult summarizes one status refresh sweep
type RefreshResult struct {
	BatchesChecked int `json:"batches_checked"`
	StatusChanges  int `json:"status_changes"`
}

package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// ReservationAllocation is one leg of a FEFO reservation plan: reserve
// Quantity from the stock record identified by StockRecordID.
type ReservationAllocation struct {
	StockRecordID uuid.UUID       `json:"stock_record_id"`
	BatchNumber   string          `json:"batch_number,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// ReservationPlan is the outcome of planning a FEFO allocation. The plan is
// computed without side effects; applying it is the caller's unit of work.
type ReservationPlan struct {
	ProductID      uuid.UUID               `json:"product_id"`
	Requested      decimal.Decimal         `json:"requested"`
	Allocations    []ReservationAllocation `json:"allocations"`
	TotalAllocated decimal.Decimal         `json:"total_allocated"`
}

// PlanFEFOReservation computes an all-or-nothing FEFO allocation of the
// requested quantity over the given stock records.
//
// Candidates are AVAILABLE records with positive net available quantity.
// They are walked in first-expiry-first-out order: ascending expiry date,
// records without an expiry date last, ties broken by creation time and then
// record ID so the walk is deterministic. When the candidates cannot cover
// the request, no plan is produced and the error names the shortfall.
func PlanFEFOReservation(productID uuid.UUID, quantity decimal.Decimal, records []StockRecord) (*ReservationPlan, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	candidates := make([]StockRecord, 0, len(records))
	totalAvailable := decimal.Zero
	for _, record := range records {
		if record.ProductID != productID || !record.IsAvailable() {
			continue
		}
		candidates = append(candidates, record)
		totalAvailable = totalAvailable.Add(record.NetAvailable())
	}

	if totalAvailable.LessThan(quantity) {
		return nil, NewInsufficientStockError(quantity, totalAvailable)
	}

	sortFEFO(candidates)

	allocations := make([]ReservationAllocation, 0, len(candidates))
	remaining := quantity
	for _, record := range candidates {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(record.NetAvailable(), remaining)
		allocations = append(allocations, ReservationAllocation{
			StockRecordID: record.ID,
			BatchNumber:   record.BatchNumber,
			Quantity:      take,
		})
		remaining = remaining.Sub(take)
	}

	return &ReservationPlan{
		ProductID:      productID,
		Requested:      quantity,
		Allocations:    allocations,
		TotalAllocated: quantity.Sub(remaining),
	}, nil
}

// sortFEFO orders records by expiry ascending with nil expiry last, breaking
// ties by creation time and then record ID.
func sortFEFO(records []StockRecord) {
	sort.Slice(records, func(i, j int) bool {
		left, right := records[i].ExpiryDate, records[j].ExpiryDate
		switch {
		case left != nil && right != nil:
			if !left.Equal(*right) {
				return left.Before(*right)
			}
		case left != nil:
			return true
		case right != nil:
			return false
		}
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID.String() < records[j].ID.String()
	})
}

// TotalNetAvailable sums net available quantity over AVAILABLE records.
// This is the figure low-stock checks and reservation capacity checks use.
func TotalNetAvailable(records []StockRecord) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		if record.Status == StockStatusAvailable {
			total = total.Add(record.NetAvailable())
		}
	}
	return total
}

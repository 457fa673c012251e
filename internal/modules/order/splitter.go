package order

import (
	"encoding/json"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Split builds a new order from resolved line items: one PROCESSING entry per
// distinct vendor, in order of first appearance.
func Split(userID string, items []*OrderItem, address json.RawMessage, now time.Time) (*Order, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	if len(items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}

	amount := decimal.Zero
	var vendors []*VendorEntry
	seen := make(map[uuid.UUID]bool)
	for _, it := range items {
		if it.VendorID == uuid.Nil {
			return nil, apperr.Validation("item %s has no vendor", it.ItemID)
		}
		if it.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be > 0 for item %s", it.ItemID)
		}
		amount = amount.Add(lineTotal(it))
		if !seen[it.VendorID] {
			seen[it.VendorID] = true
			vendors = append(vendors, &VendorEntry{
				VendorID:   it.VendorID,
				VendorName: it.VendorName,
				Status:     StatusProcessing,
			})
		}
	}

	o := &Order{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     items,
		Amount:    amount.Round(2).InexactFloat64(),
		Address:   address,
		Vendors:   vendors,
		CreatedAt: now,
		UpdatedAt: now,
	}
	refreshOverall(o)
	return o, nil
}

func lineTotal(it *OrderItem) decimal.Decimal {
	return decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

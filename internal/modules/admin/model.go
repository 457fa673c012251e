package admin

import (
	"github.com/georgemunganga/foodcourt-backend/internal/modules/vendor"
)

// VendorStats is one stall as the admin overview lists it.
type VendorStats struct {
	*vendor.Vendor
	ItemCount  int `json:"item_count"`
	OrderCount int `json:"order_count"`
	// Revenue sums the vendor's share of every order it has delivered.
	Revenue float64 `json:"revenue"`
}

// DeactivateResponse reports a closed stall and how many items were paused.
type DeactivateResponse struct {
	Vendor      *vendor.Vendor `json:"vendor"`
	PausedItems int            `json:"paused_items"`
}

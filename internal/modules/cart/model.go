package cart

import "github.com/google/uuid"

// Line is one item in a pending cart, priced from the live catalog.
type Line struct {
	ItemID     uuid.UUID `json:"item_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	VendorID   uuid.UUID `json:"vendor_id"`
	VendorName string    `json:"vendor_name"`
	Available  bool      `json:"available"`
}

// Cart is a customer's pending selection before checkout.
type Cart struct {
	UserID string  `json:"user_id"`
	Lines  []Line  `json:"lines"`
	Total  float64 `json:"total"`
}

// AddRequest adds Quantity units of an item (default 1).
type AddRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

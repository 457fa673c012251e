package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the fulfillment state of one vendor's share of an order, and
// also the derived overall status of the order.
type Status string

const (
	StatusProcessing     Status = "PROCESSING"
	StatusOutForDelivery Status = "OUT_FOR_DELIVERY"
	StatusDelivered      Status = "DELIVERED"
)

// Order is one customer purchase that may span several vendors.
type Order struct {
	ID      uuid.UUID       `json:"id"`
	UserID  string          `json:"user_id"`
	Items   []*OrderItem    `json:"items"`
	Amount  float64         `json:"amount"`
	Address json.RawMessage `json:"address,omitempty"`
	// Vendors holds exactly one entry per vendor taking part in the order.
	Vendors []*VendorEntry `json:"vendors"`
	// OverallStatus is Derive(Vendors); only the store's mutation path writes it.
	OverallStatus Status     `json:"overall_status"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	Paid          bool       `json:"paid"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OrderItem is a line item. Name, Price and Vendor are snapshots taken at
// checkout and do not follow later catalog edits.
type OrderItem struct {
	ItemID     uuid.UUID `json:"item_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	VendorID   uuid.UUID `json:"vendor_id"`
	VendorName string    `json:"vendor_name"`
}

// VendorEntry is one vendor's fulfillment state within an order.
// DeliveredAt is set once, on the first transition to DELIVERED.
type VendorEntry struct {
	VendorID    uuid.UUID  `json:"vendor_id"`
	VendorName  string     `json:"vendor_name"`
	Status      Status     `json:"status"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// Vendor returns the entry for id, or nil when the vendor is not part of the order.
func (o *Order) Vendor(id uuid.UUID) *VendorEntry {
	for _, e := range o.Vendors {
		if e.VendorID == id {
			return e
		}
	}
	return nil
}

// ItemIDs lists the distinct catalog ids referenced by the order.
func (o *Order) ItemIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(o.Items))
	var ids []uuid.UUID
	for _, it := range o.Items {
		if !seen[it.ItemID] {
			seen[it.ItemID] = true
			ids = append(ids, it.ItemID)
		}
	}
	return ids
}

func (o *Order) clone() *Order {
	c := *o
	c.Address = append(json.RawMessage(nil), o.Address...)
	c.DeliveredAt = cloneTime(o.DeliveredAt)
	c.Items = make([]*OrderItem, len(o.Items))
	for i, it := range o.Items {
		cp := *it
		c.Items[i] = &cp
	}
	c.Vendors = make([]*VendorEntry, len(o.Vendors))
	for i, e := range o.Vendors {
		cp := *e
		cp.DeliveredAt = cloneTime(e.DeliveredAt)
		c.Vendors[i] = &cp
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// ── Request/Response DTOs ─────────────────────────────────────────────────────

// CartLine is one requested item at checkout.
type CartLine struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// PlaceOrderRequest is the checkout payload. Amount is optional; when set it
// must agree with the catalog prices.
type PlaceOrderRequest struct {
	Items   []CartLine      `json:"items"`
	Amount  float64         `json:"amount,omitempty"`
	Address json.RawMessage `json:"address"`
}

// PlaceOrderResponse is returned to the customer after checkout.
type PlaceOrderResponse struct {
	OrderID        uuid.UUID `json:"order_id"`
	Amount         float64   `json:"amount"`
	DeliveryCharge float64   `json:"delivery_charge"`
	Payable        float64   `json:"payable"`
}

// PaymentRequest is the payment collaborator's outcome for an order.
type PaymentRequest struct {
	Success bool `json:"success"`
}

// UpdateStatusRequest is a vendor's status change for its share of an order.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// TransitionResult reports the state after a vendor status change.
type TransitionResult struct {
	OrderID           uuid.UUID  `json:"order_id"`
	VendorID          uuid.UUID  `json:"vendor_id"`
	VendorStatus      Status     `json:"vendor_status"`
	VendorDeliveredAt *time.Time `json:"vendor_delivered_at,omitempty"`
	OverallStatus     Status     `json:"overall_status"`
}

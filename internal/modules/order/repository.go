package order

import (
	"context"

	"github.com/google/uuid"
)

// VendorMutation changes vendor entries of a locked order and reports which
// vendor ids it touched. Only those entries are written back.
type VendorMutation func(o *Order) (changed []uuid.UUID, err error)

// Repository defines data access for orders.
type Repository interface {
	// CreateOrder persists a new order, its items and vendor entries atomically.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items and vendor entries.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrdersByCustomer returns a customer's orders, newest first.
	ListOrdersByCustomer(ctx context.Context, userID string) ([]*Order, error)

	// ListOrdersByVendor returns orders where the vendor has an entry, a
	// snapshot item, or one of itemIDs (the vendor's current catalog).
	ListOrdersByVendor(ctx context.Context, vendorID uuid.UUID, itemIDs []uuid.UUID) ([]*Order, error)

	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]*Order, error)

	// MutateVendors runs fn against the latest state of the order while
	// holding it exclusively, writes back only the touched vendor entries and
	// the re-derived overall status, all in one atomic step.
	MutateVendors(ctx context.Context, id uuid.UUID, fn VendorMutation) (*Order, error)

	// MarkPaid sets the paid flag.
	MarkPaid(ctx context.Context, id uuid.UUID) error

	// DeleteOrder removes an order and everything under it.
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

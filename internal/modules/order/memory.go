package order

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
)

type memoryRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*Order
}

// NewMemoryRepository keeps orders in process memory. Every read returns a
// private copy, and MutateVendors runs under the store lock, so concurrent
// vendors never overwrite each other's entries.
func NewMemoryRepository() Repository {
	return &memoryRepo{orders: make(map[uuid.UUID]*Order)}
}

func (r *memoryRepo) CreateOrder(ctx context.Context, o *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; ok {
		return apperr.ErrConflict
	}
	r.orders[o.ID] = o.clone()
	return nil
}

func (r *memoryRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, apperr.ErrOrderNotFound
	}
	return o.clone(), nil
}

func (r *memoryRepo) ListOrdersByCustomer(ctx context.Context, userID string) ([]*Order, error) {
	return r.filter(func(o *Order) bool { return o.UserID == userID }), nil
}

func (r *memoryRepo) ListOrdersByVendor(ctx context.Context, vendorID uuid.UUID, itemIDs []uuid.UUID) ([]*Order, error) {
	return r.filter(func(o *Order) bool {
		if o.Vendor(vendorID) != nil {
			return true
		}
		for _, it := range o.Items {
			if it.VendorID == vendorID || slices.Contains(itemIDs, it.ItemID) {
				return true
			}
		}
		return false
	}), nil
}

func (r *memoryRepo) ListOrders(ctx context.Context) ([]*Order, error) {
	return r.filter(func(*Order) bool { return true }), nil
}

func (r *memoryRepo) MutateVendors(ctx context.Context, id uuid.UUID, fn VendorMutation) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.orders[id]
	if !ok {
		return nil, apperr.ErrOrderNotFound
	}

	work := cur.clone()
	changed, err := fn(work)
	if err != nil {
		return nil, err
	}

	// write back only the touched entries onto the stored order
	for _, vid := range changed {
		e := work.Vendor(vid)
		if e == nil {
			continue
		}
		cp := *e
		cp.DeliveredAt = cloneTime(e.DeliveredAt)
		if stored := cur.Vendor(vid); stored != nil {
			*stored = cp
		} else {
			cur.Vendors = append(cur.Vendors, &cp)
		}
	}
	refreshOverall(cur)
	cur.UpdatedAt = time.Now().UTC()
	return cur.clone(), nil
}

func (r *memoryRepo) MarkPaid(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return apperr.ErrOrderNotFound
	}
	o.Paid = true
	o.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return apperr.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *memoryRepo) filter(keep func(*Order) bool) []*Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Order
	for _, o := range r.orders {
		if keep(o) {
			out = append(out, o.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/vendor"
	"github.com/google/uuid"
)

// VendorNames looks up the current vendor record. The vendor repository satisfies it.
type VendorNames interface {
	GetVendorByID(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error)
}

type memoryRepo struct {
	mu      sync.RWMutex
	items   map[uuid.UUID]Item
	vendors VendorNames
}

// NewMemoryRepository keeps the catalog in process memory. Items keep the
// vendor name they were stored with.
func NewMemoryRepository() Repository {
	return &memoryRepo{items: make(map[uuid.UUID]Item)}
}

// NewMemoryRepositoryWithVendors reads vendor names from vendors on every
// lookup, the way the postgres repository joins the vendors table, so a
// rename shows up on existing items.
func NewMemoryRepositoryWithVendors(vendors VendorNames) Repository {
	return &memoryRepo{items: make(map[uuid.UUID]Item), vendors: vendors}
}

func (r *memoryRepo) Create(ctx context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID] = *it
	return nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[id]
	if !ok {
		return nil, apperr.ErrItemNotFound
	}
	r.withVendorName(ctx, &it)
	return &it, nil
}

func (r *memoryRepo) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[uuid.UUID]*Item, len(ids))
	for _, id := range ids {
		if it, ok := r.items[id]; ok {
			r.withVendorName(ctx, &it)
			out[id] = &it
		}
	}
	return out, nil
}

func (r *memoryRepo) List(ctx context.Context, f Filter) ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Item
	for _, it := range r.items {
		if f.VendorID != uuid.Nil && it.VendorID != f.VendorID {
			continue
		}
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.AvailableOnly && !it.Available {
			continue
		}
		it := it
		r.withVendorName(ctx, &it)
		out = append(out, &it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepo) Update(ctx context.Context, it *Item) error {
	return r.mutate(it.ID, func(cur *Item) {
		cur.Name = it.Name
		cur.Description = it.Description
		cur.Price = it.Price
		cur.Category = it.Category
		cur.Image = it.Image
		cur.VendorID = it.VendorID
		cur.VendorName = it.VendorName
	})
}

func (r *memoryRepo) SetAvailable(ctx context.Context, id uuid.UUID, available bool) error {
	return r.mutate(id, func(cur *Item) { cur.Available = available })
}

func (r *memoryRepo) UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[id]
	if !ok {
		return apperr.ErrItemNotFound
	}
	cur.AverageRating = average
	cur.RatingCount = count
	r.items[id] = cur
	return nil
}

func (r *memoryRepo) ListItemIDs(ctx context.Context) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// withVendorName replaces the stored vendor name with the registry's current
// one. Items whose vendor is unknown keep the stored name.
func (r *memoryRepo) withVendorName(ctx context.Context, it *Item) {
	if r.vendors == nil {
		return
	}
	if v, err := r.vendors.GetVendorByID(ctx, it.VendorID); err == nil {
		it.VendorName = v.Name
	}
}

func (r *memoryRepo) mutate(id uuid.UUID, fn func(*Item)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[id]
	if !ok {
		return apperr.ErrItemNotFound
	}
	fn(&cur)
	cur.UpdatedAt = time.Now().UTC()
	r.items[id] = cur
	return nil
}

package feedback

import (
	"context"
	"sort"
	"sync"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
)

type memoryRepo struct {
	mu      sync.RWMutex
	entries []Feedback
}

func NewMemoryRepository() Repository { return &memoryRepo{} }

func (r *memoryRepo) Create(ctx context.Context, f *Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.UserID == f.UserID && e.OrderID == f.OrderID && e.ItemID == f.ItemID {
			return apperr.ErrDuplicateFeedback
		}
	}
	cp := *f
	cp.Photos = append([]string(nil), f.Photos...)
	r.entries = append(r.entries, cp)
	return nil
}

func (r *memoryRepo) Exists(ctx context.Context, userID string, orderID, itemID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.UserID == userID && e.OrderID == orderID && e.ItemID == itemID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*Feedback, error) {
	return r.filter(func(f *Feedback) bool { return f.ItemID == itemID }), nil
}

func (r *memoryRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Feedback, error) {
	return r.filter(func(f *Feedback) bool { return f.VendorID == vendorID }), nil
}

func (r *memoryRepo) ListByUser(ctx context.Context, userID string) ([]*Feedback, error) {
	return r.filter(func(f *Feedback) bool { return f.UserID == userID }), nil
}

func (r *memoryRepo) Stats(ctx context.Context, itemID uuid.UUID) (int64, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sum, count int64
	for _, e := range r.entries {
		if e.ItemID == itemID {
			sum += int64(e.Rating)
			count++
		}
	}
	return sum, count, nil
}

func (r *memoryRepo) filter(keep func(*Feedback) bool) []*Feedback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*Feedback{}
	for i := range r.entries {
		if keep(&r.entries[i]) {
			cp := r.entries[i]
			cp.Photos = append([]string(nil), cp.Photos...)
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

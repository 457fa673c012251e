package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryRepo struct {
	mu    sync.Mutex
	carts map[string]map[uuid.UUID]int
}

func NewMemoryRepository() Repository {
	return &memoryRepo{carts: make(map[string]map[uuid.UUID]int)}
}

func (r *memoryRepo) Add(ctx context.Context, userID string, itemID uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		c = make(map[uuid.UUID]int)
		r.carts[userID] = c
	}
	c[itemID] += quantity
	return nil
}

func (r *memoryRepo) Remove(ctx context.Context, userID string, itemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.carts[userID]
	if c == nil {
		return nil
	}
	if c[itemID]--; c[itemID] <= 0 {
		delete(c, itemID)
	}
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, userID string) (map[uuid.UUID]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]int, len(r.carts[userID]))
	for id, q := range r.carts[userID] {
		out[id] = q
	}
	return out, nil
}

func (r *memoryRepo) Clear(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}

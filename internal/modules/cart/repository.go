package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores item quantities per user.
type Repository interface {
	Add(ctx context.Context, userID string, itemID uuid.UUID, quantity int) error
	// Remove takes one unit away and drops the line when it reaches zero.
	Remove(ctx context.Context, userID string, itemID uuid.UUID) error
	Get(ctx context.Context, userID string) (map[uuid.UUID]int, error)
	Clear(ctx context.Context, userID string) error
}

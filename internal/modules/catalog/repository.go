package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for catalog item storage.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// GetMany returns the items that exist among ids; missing ids are absent from the map.
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Item, error)
	List(ctx context.Context, f Filter) ([]*Item, error)
	// Update writes the menu fields. Rating fields are left untouched.
	Update(ctx context.Context, item *Item) error
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
	UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error
	ListItemIDs(ctx context.Context) ([]uuid.UUID, error)
}

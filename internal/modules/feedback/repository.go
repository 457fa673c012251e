package feedback

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines feedback storage. Listings are newest first.
type Repository interface {
	// Create fails with ErrDuplicateFeedback when (user, order, item) already has an entry.
	Create(ctx context.Context, f *Feedback) error
	Exists(ctx context.Context, userID string, orderID, itemID uuid.UUID) (bool, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*Feedback, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Feedback, error)
	ListByUser(ctx context.Context, userID string) ([]*Feedback, error)
	// Stats returns the rating sum and row count over every entry for the item.
	Stats(ctx context.Context, itemID uuid.UUID) (sum int64, count int64, err error)
}

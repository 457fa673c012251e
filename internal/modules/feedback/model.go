package feedback

import (
	"time"

	"github.com/google/uuid"
)

// MaxPhotos bounds the photo references attached to one feedback entry.
const MaxPhotos = 5

// Feedback is a customer's rating of one item from one of their orders.
// It is written once and never edited. ItemName and VendorID are snapshots
// from the order line.
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	OrderID   uuid.UUID `json:"order_id"`
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	VendorID  uuid.UUID `json:"vendor_id"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	Photos    []string  `json:"photos"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitRequest is the customer's feedback payload.
type SubmitRequest struct {
	OrderID string   `json:"order_id"`
	ItemID  string   `json:"item_id"`
	Rating  int      `json:"rating"`
	Text    string   `json:"text"`
	Photos  []string `json:"photos"`
}

// RatingSummary is the aggregate written back to a catalog item.
type RatingSummary struct {
	ItemID        uuid.UUID `json:"item_id"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int       `json:"rating_count"`
}

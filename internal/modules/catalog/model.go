package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Item is a sellable dish on a vendor's menu.
// AverageRating and RatingCount are owned by the rating aggregator.
type Item struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Image         string    `json:"image,omitempty"` // filename held by the media store
	VendorID      uuid.UUID `json:"vendor_id"`
	VendorName    string    `json:"vendor_name"`
	Available     bool      `json:"available"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int       `json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Filter narrows List. Zero values mean "any".
type Filter struct {
	VendorID      uuid.UUID
	Category      string
	AvailableOnly bool
}

// ItemRequest is the create/update payload. Admins may name the vendor by
// VendorID or by VendorName; vendors always create for themselves.
type ItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	VendorID    string  `json:"vendor_id,omitempty"`
	VendorName  string  `json:"vendor_name,omitempty"`
}

// PauseRequest toggles availability.
type PauseRequest struct {
	Paused bool `json:"paused"`
}

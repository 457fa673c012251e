package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
)

// legacyLabels are the display strings older clients still send.
var legacyLabels = map[string]Status{
	"food processing":  StatusProcessing,
	"processing":       StatusProcessing,
	"out for delivery": StatusOutForDelivery,
	"outfordelivery":   StatusOutForDelivery,
	"delivered":        StatusDelivered,
}

// ParseStatus accepts the canonical names case-insensitively as well as the
// legacy display labels.
func ParseStatus(raw string) (Status, error) {
	s := strings.TrimSpace(raw)
	switch st := Status(strings.ToUpper(s)); st {
	case StatusProcessing, StatusOutForDelivery, StatusDelivered:
		return st, nil
	}
	if st, ok := legacyLabels[strings.ToLower(s)]; ok {
		return st, nil
	}
	return "", apperr.Validation("unknown status %q", raw)
}

// Transition moves one vendor's share of o to next. The only forbidden move
// is leaving DELIVERED; PROCESSING, OUT_FOR_DELIVERY and back are all allowed.
// A vendor's delivery time is stamped on its first DELIVERED and never again.
// Transition does not touch OverallStatus.
func Transition(o *Order, vendorID uuid.UUID, next Status, now time.Time) (*VendorEntry, error) {
	e := o.Vendor(vendorID)
	if e == nil {
		return nil, fmt.Errorf("vendor %s has no share in order %s: %w", vendorID, o.ID, apperr.ErrVendorNotFound)
	}
	if e.Status == StatusDelivered && next != StatusDelivered {
		return nil, fmt.Errorf("vendor %s already delivered order %s, cannot move to %s: %w",
			vendorID, o.ID, next, apperr.ErrIllegalTransition)
	}

	e.Status = next
	if next == StatusDelivered && e.DeliveredAt == nil {
		t := now
		e.DeliveredAt = &t
	}
	return e, nil
}

// Derive computes the overall order status from the vendor entries:
// DELIVERED when every vendor delivered, OUT_FOR_DELIVERY when any vendor is
// out for delivery, PROCESSING otherwise.
func Derive(vendors []*VendorEntry) Status {
	allDelivered := true
	anyOut := false
	for _, e := range vendors {
		if e.Status != StatusDelivered {
			allDelivered = false
		}
		if e.Status == StatusOutForDelivery {
			anyOut = true
		}
	}
	switch {
	case allDelivered:
		return StatusDelivered
	case anyOut:
		return StatusOutForDelivery
	}
	return StatusProcessing
}

// refreshOverall rewrites the cached overall status. The overall delivery
// time is the moment the last vendor delivered.
func refreshOverall(o *Order) {
	o.OverallStatus = Derive(o.Vendors)
	if o.OverallStatus != StatusDelivered {
		o.DeliveredAt = nil
		return
	}
	var last *time.Time
	for _, e := range o.Vendors {
		if e.DeliveredAt != nil && (last == nil || e.DeliveredAt.After(*last)) {
			last = e.DeliveredAt
		}
	}
	o.DeliveredAt = cloneTime(last)
}

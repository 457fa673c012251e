package order

import (
	"encoding/json"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/modules/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemDetails is the current catalog view of an ordered item. It is nil in a
// view when the catalog item has since been removed.
type ItemDetails struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
	Category string  `json:"category"`
}

// ViewItem is an order line plus its live catalog details.
type ViewItem struct {
	OrderItem
	Details *ItemDetails `json:"details"`
}

// VendorOrderView is the slice of one order that belongs to one vendor.
type VendorOrderView struct {
	OrderID           uuid.UUID       `json:"order_id"`
	VendorID          uuid.UUID       `json:"vendor_id"`
	VendorName        string          `json:"vendor_name"`
	Items             []ViewItem      `json:"items"`
	VendorTotal       float64         `json:"vendor_total"`
	VendorStatus      Status          `json:"vendor_status"`
	VendorDeliveredAt *time.Time      `json:"vendor_delivered_at,omitempty"`
	OverallStatus     Status          `json:"overall_status"`
	Paid              bool            `json:"paid"`
	Address           json.RawMessage `json:"address,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	// NeedsRepair is set when the vendor owns items in the order but has no
	// entry yet; the vendor's next status update or RepairVendorLinks adds it.
	NeedsRepair bool `json:"needs_repair,omitempty"`
}

// CustomerOrderView is an order as its customer sees it, grouped by vendor.
type CustomerOrderView struct {
	*Order
	VendorGroups []VendorOrderView `json:"vendor_groups"`
}

// Catalog maps item ids to their current catalog record.
type Catalog map[uuid.UUID]*catalog.Item

// ownerOf returns the vendor an item belongs to now: the catalog's current
// vendor when the item still exists, else the checkout snapshot.
func ownerOf(it *OrderItem, cat Catalog) (uuid.UUID, string) {
	if c, ok := cat[it.ItemID]; ok && c.VendorID != uuid.Nil {
		return c.VendorID, c.VendorName
	}
	return it.VendorID, it.VendorName
}

// OwnsItem reports whether vendorID currently owns the order line.
func OwnsItem(it *OrderItem, vendorID uuid.UUID, cat Catalog) bool {
	owner, _ := ownerOf(it, cat)
	return owner == vendorID
}

// ProjectForVendor builds the vendor-scoped view of o. It never mutates o and
// never fails: a vendor with no items in the order gets an empty view.
func ProjectForVendor(o *Order, vendorID uuid.UUID, vendorName string, cat Catalog) VendorOrderView {
	v := VendorOrderView{
		OrderID:       o.ID,
		VendorID:      vendorID,
		VendorName:    vendorName,
		Items:         []ViewItem{},
		VendorStatus:  StatusProcessing,
		OverallStatus: o.OverallStatus,
		Paid:          o.Paid,
		Address:       o.Address,
		CreatedAt:     o.CreatedAt,
	}

	total := decimal.Zero
	for _, it := range o.Items {
		if !OwnsItem(it, vendorID, cat) {
			continue
		}
		v.Items = append(v.Items, ViewItem{OrderItem: *it, Details: detailsOf(cat[it.ItemID])})
		total = total.Add(lineTotal(it))
	}
	v.VendorTotal = total.Round(2).InexactFloat64()

	if e := o.Vendor(vendorID); e != nil {
		v.VendorStatus = e.Status
		v.VendorDeliveredAt = cloneTime(e.DeliveredAt)
		if e.VendorName != "" && v.VendorName == "" {
			v.VendorName = e.VendorName
		}
	} else if len(v.Items) > 0 {
		v.NeedsRepair = true
	}
	return v
}

// GroupByVendor splits o into one view per vendor that currently owns at
// least one of its items, in order of first appearance.
func GroupByVendor(o *Order, cat Catalog) []VendorOrderView {
	var groups []VendorOrderView
	seen := make(map[uuid.UUID]bool)
	for _, it := range o.Items {
		id, name := ownerOf(it, cat)
		if seen[id] {
			continue
		}
		seen[id] = true
		if e := o.Vendor(id); e != nil && e.VendorName != "" {
			name = e.VendorName
		}
		groups = append(groups, ProjectForVendor(o, id, name, cat))
	}
	return groups
}

// MissingVendors returns fresh PROCESSING entries for vendors that own items
// in o but have no entry, i.e. linkage that drifted after checkout.
func MissingVendors(o *Order, cat Catalog) []*VendorEntry {
	var missing []*VendorEntry
	seen := make(map[uuid.UUID]bool)
	for _, it := range o.Items {
		id, name := ownerOf(it, cat)
		if id == uuid.Nil || seen[id] || o.Vendor(id) != nil {
			continue
		}
		seen[id] = true
		missing = append(missing, &VendorEntry{VendorID: id, VendorName: name, Status: StatusProcessing})
	}
	return missing
}

func detailsOf(c *catalog.Item) *ItemDetails {
	if c == nil {
		return nil
	}
	return &ItemDetails{Name: c.Name, Price: c.Price, Image: c.Image, Category: c.Category}
}

// linkVendor adds a PROCESSING entry for vendorID when the vendor owns items
// in o by current catalog ownership but has no entry yet. It reports whether
// an entry was added.
func linkVendor(o *Order, vendorID uuid.UUID, cat Catalog) bool {
	if o.Vendor(vendorID) != nil {
		return false
	}
	for _, e := range MissingVendors(o, cat) {
		if e.VendorID == vendorID {
			o.Vendors = append(o.Vendors, e)
			return true
		}
	}
	return false
}

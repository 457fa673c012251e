package admin

import (
	"context"

	"github.com/georgemunganga/foodcourt-backend/internal/metrics"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/catalog"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/order"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/vendor"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service is the admin view over stalls.
type Service interface {
	// ListVendorStats returns every vendor with its item count, order count
	// and delivered revenue.
	ListVendorStats(ctx context.Context) ([]VendorStats, error)
	// DeactivateVendor closes a stall and pauses all of its items. The vendor
	// record and its order history are kept.
	DeactivateVendor(ctx context.Context, id uuid.UUID) (*DeactivateResponse, error)
	ActivateVendor(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error)
}

// VendorRegistry is the vendor side the admin needs. vendor.Service satisfies it.
type VendorRegistry interface {
	ListVendors(ctx context.Context) ([]*vendor.Vendor, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*vendor.Vendor, error)
}

// ItemStore is satisfied by catalog.Repository.
type ItemStore interface {
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Item, error)
	List(ctx context.Context, f catalog.Filter) ([]*catalog.Item, error)
	SetAvailable(ctx context.Context, id uuid.UUID, available bool) error
}

// OrderLister is satisfied by order.Repository.
type OrderLister interface {
	ListOrders(ctx context.Context) ([]*order.Order, error)
}

type service struct {
	vendors VendorRegistry
	items   ItemStore
	orders  OrderLister
	logger  *zap.Logger
}

func NewService(vendors VendorRegistry, items ItemStore, orders OrderLister, logger *zap.Logger) Service {
	return &service{vendors: vendors, items: items, orders: orders, logger: logger}
}

func (s *service) ListVendorStats(ctx context.Context) ([]VendorStats, error) {
	var (
		vendors []*vendor.Vendor
		orders  []*order.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vendors, err = s.vendors.ListVendors(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.ListOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("admin_vendor_stats").Inc()
		return nil, err
	}

	cat, err := s.catalogFor(ctx, orders)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("admin_vendor_stats").Inc()
		return nil, err
	}

	stats := make([]VendorStats, len(vendors))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, v := range vendors {
		i, v := i, v
		g.Go(func() error {
			owned, err := s.items.List(gctx, catalog.Filter{VendorID: v.ID})
			if err != nil {
				return err
			}
			stats[i] = tally(v, len(owned), orders, cat)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("admin_vendor_stats").Inc()
		return nil, err
	}
	return stats, nil
}

// tally counts the orders v takes part in, by entry or by current item
// ownership, and sums its share of the ones it delivered.
func tally(v *vendor.Vendor, itemCount int, orders []*order.Order, cat order.Catalog) VendorStats {
	st := VendorStats{Vendor: v, ItemCount: itemCount}
	revenue := decimal.Zero
	for _, o := range orders {
		view := order.ProjectForVendor(o, v.ID, v.Name, cat)
		e := o.Vendor(v.ID)
		if e == nil && len(view.Items) == 0 {
			continue
		}
		st.OrderCount++
		if e != nil && e.Status == order.StatusDelivered {
			revenue = revenue.Add(decimal.NewFromFloat(view.VendorTotal))
		}
	}
	st.Revenue = revenue.Round(2).InexactFloat64()
	return st
}

func (s *service) catalogFor(ctx context.Context, orders []*order.Order) (order.Catalog, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, o := range orders {
		for _, id := range o.ItemIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return order.Catalog{}, nil
	}
	found, err := s.items.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return order.Catalog(found), nil
}

func (s *service) DeactivateVendor(ctx context.Context, id uuid.UUID) (*DeactivateResponse, error) {
	v, err := s.vendors.SetActive(ctx, id, false)
	if err != nil {
		return nil, err
	}
	owned, err := s.items.List(ctx, catalog.Filter{VendorID: id, AvailableOnly: true})
	if err != nil {
		return nil, err
	}
	for _, it := range owned {
		if err := s.items.SetAvailable(ctx, it.ID, false); err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("admin_deactivate_vendor").Inc()
			return nil, err
		}
	}
	s.logger.Info("vendor deactivated",
		zap.Stringer("vendor_id", id),
		zap.String("name", v.Name),
		zap.Int("paused_items", len(owned)))
	return &DeactivateResponse{Vendor: v, PausedItems: len(owned)}, nil
}

// ActivateVendor reopens a stall. Its items stay paused until the vendor
// resumes them.
func (s *service) ActivateVendor(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error) {
	v, err := s.vendors.SetActive(ctx, id, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info("vendor activated", zap.Stringer("vendor_id", id))
	return v, nil
}

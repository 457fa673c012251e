package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/events"
	"github.com/georgemunganga/foodcourt-backend/internal/metrics"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/catalog"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/vendor"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service defines order management business logic.
type Service interface {
	// PlaceOrder snapshots the requested catalog items and splits them by vendor.
	PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*PlaceOrderResponse, error)
	// ConfirmPayment records the payment outcome; a failed payment removes the order.
	ConfirmPayment(ctx context.Context, actor auth.Principal, id uuid.UUID, success bool) (*Order, error)
	GetOrder(ctx context.Context, actor auth.Principal, id uuid.UUID) (*CustomerOrderView, error)
	// UpdateVendorStatus moves one vendor's share of an order and re-derives the overall status.
	UpdateVendorStatus(ctx context.Context, orderID, vendorID uuid.UUID, req UpdateStatusRequest) (*TransitionResult, error)
	ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]VendorOrderView, error)
	ListCustomerOrders(ctx context.Context, userID string) ([]CustomerOrderView, error)
	ListAllOrders(ctx context.Context) ([]CustomerOrderView, error)
	// RepairVendorLinks adds missing vendor entries to every order and returns how many were added.
	RepairVendorLinks(ctx context.Context) (int, error)
}

// CatalogReader is the read side of the catalog the order flow depends on.
type CatalogReader interface {
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Item, error)
	List(ctx context.Context, f catalog.Filter) ([]*catalog.Item, error)
}

// VendorDirectory resolves vendor ids to their registry record.
type VendorDirectory interface {
	GetVendor(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error)
}

// CartClearer empties a customer's pending cart after checkout.
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

type service struct {
	repo           Repository
	catalog        CatalogReader
	vendors        VendorDirectory
	carts          CartClearer
	publisher      events.Publisher
	logger         *zap.Logger
	deliveryCharge float64
	now            func() time.Time
}

func NewService(
	repo Repository,
	items CatalogReader,
	vendors VendorDirectory,
	carts CartClearer,
	publisher events.Publisher,
	logger *zap.Logger,
	deliveryCharge float64,
) Service {
	return &service{
		repo:           repo,
		catalog:        items,
		vendors:        vendors,
		carts:          carts,
		publisher:      publisher,
		logger:         logger,
		deliveryCharge: deliveryCharge,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// ── Events ──────────────────────────────────────────────────────────────────

type orderPlacedEvent struct {
	OrderID   uuid.UUID   `json:"order_id"`
	UserID    string      `json:"user_id"`
	Amount    float64     `json:"amount"`
	VendorIDs []uuid.UUID `json:"vendor_ids"`
}

type paymentEvent struct {
	OrderID uuid.UUID `json:"order_id"`
	Success bool      `json:"success"`
}

type vendorStatusEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	VendorID      uuid.UUID `json:"vendor_id"`
	Status        Status    `json:"status"`
	OverallStatus Status    `json:"overall_status"`
}

// ── Checkout ────────────────────────────────────────────────────────────────

func (s *service) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	ids := make([]uuid.UUID, len(req.Items))
	for i, line := range req.Items {
		id, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, apperr.Validation("invalid item id %q", line.ItemID)
		}
		if line.Quantity <= 0 {
			return nil, apperr.Validation("quantity must be > 0 for item %s", line.ItemID)
		}
		ids[i] = id
	}

	found, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("place_order").Inc()
		return nil, err
	}

	items := make([]*OrderItem, len(req.Items))
	for i, line := range req.Items {
		c, ok := found[ids[i]]
		if !ok {
			return nil, apperr.Validation("item %s does not exist", ids[i])
		}
		if !c.Available {
			return nil, apperr.Validation("item %q is currently unavailable", c.Name)
		}
		items[i] = &OrderItem{
			ItemID:     c.ID,
			Name:       c.Name,
			Price:      c.Price,
			Quantity:   line.Quantity,
			VendorID:   c.VendorID,
			VendorName: c.VendorName,
		}
	}

	o, err := Split(userID, items, req.Address, s.now())
	if err != nil {
		return nil, err
	}
	if req.Amount != 0 && math.Abs(req.Amount-o.Amount) > 0.01 {
		return nil, apperr.Validation("amount %.2f does not match item total %.2f", req.Amount, o.Amount)
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("place_order").Inc()
		return nil, err
	}
	metrics.OrdersPlacedTotal.Inc()

	// the order is committed; a stale cart is only an annoyance
	if err := s.carts.ClearCart(ctx, userID); err != nil {
		s.logger.Warn("failed to clear cart after checkout", zap.String("user_id", userID), zap.Error(err))
	}

	vendorIDs := make([]uuid.UUID, len(o.Vendors))
	for i, e := range o.Vendors {
		vendorIDs[i] = e.VendorID
	}
	s.publish(ctx, events.TopicOrderPlaced, o.ID, orderPlacedEvent{
		OrderID: o.ID, UserID: o.UserID, Amount: o.Amount, VendorIDs: vendorIDs,
	})
	s.logger.Info("order placed",
		zap.Stringer("order_id", o.ID),
		zap.String("user_id", userID),
		zap.Int("vendors", len(o.Vendors)),
		zap.Float64("amount", o.Amount))

	return &PlaceOrderResponse{
		OrderID:        o.ID,
		Amount:         o.Amount,
		DeliveryCharge: s.deliveryCharge,
		Payable:        o.Amount + s.deliveryCharge,
	}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, actor auth.Principal, id uuid.UUID, success bool) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canSee(actor, o); err != nil {
		return nil, err
	}

	if success {
		if !o.Paid {
			if err := s.repo.MarkPaid(ctx, id); err != nil {
				return nil, err
			}
			o.Paid = true
		}
		metrics.PaymentsTotal.WithLabelValues("success").Inc()
	} else {
		if o.Paid {
			return nil, fmt.Errorf("order %s is already paid: %w", id, apperr.ErrConflict)
		}
		if err := s.repo.DeleteOrder(ctx, id); err != nil {
			return nil, err
		}
		metrics.PaymentsTotal.WithLabelValues("failed").Inc()
		s.logger.Info("order removed after failed payment", zap.Stringer("order_id", id))
		o = nil
	}

	s.publish(ctx, events.TopicOrderPayment, id, paymentEvent{OrderID: id, Success: success})
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, actor auth.Principal, id uuid.UUID) (*CustomerOrderView, error) {
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canSee(actor, o); err != nil {
		return nil, err
	}
	views, err := s.customerViews(ctx, []*Order{o})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ── Vendor status ───────────────────────────────────────────────────────────

func (s *service) UpdateVendorStatus(ctx context.Context, orderID, vendorID uuid.UUID, req UpdateStatusRequest) (*TransitionResult, error) {
	next, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	// ownership may have moved in the catalog since checkout
	current, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		metrics.RejectedTransitionsTotal.WithLabelValues(apperr.Code(err)).Inc()
		return nil, err
	}
	cat, err := s.catalogFor(ctx, []*Order{current})
	if err != nil {
		return nil, err
	}

	var (
		entry      VendorEntry
		backfilled bool
	)
	o, err := s.repo.MutateVendors(ctx, orderID, func(o *Order) ([]uuid.UUID, error) {
		backfilled = linkVendor(o, vendorID, cat)
		e, err := Transition(o, vendorID, next, s.now())
		if err != nil {
			return nil, err
		}
		entry = *e
		return []uuid.UUID{vendorID}, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrVendorNotFound), errors.Is(err, apperr.ErrIllegalTransition), errors.Is(err, apperr.ErrOrderNotFound):
			metrics.RejectedTransitionsTotal.WithLabelValues(apperr.Code(err)).Inc()
			s.logger.Info("vendor status change rejected",
				zap.Stringer("order_id", orderID),
				zap.Stringer("vendor_id", vendorID),
				zap.String("status", string(next)),
				zap.Error(err))
		default:
			metrics.OperationErrorsTotal.WithLabelValues("update_vendor_status").Inc()
		}
		return nil, err
	}
	metrics.VendorTransitionsTotal.WithLabelValues(string(next)).Inc()
	if backfilled {
		metrics.VendorLinksRepairedTotal.Inc()
		s.logger.Info("vendor entry backfilled on status change",
			zap.Stringer("order_id", orderID),
			zap.Stringer("vendor_id", vendorID))
	}

	s.logger.Info("vendor status changed",
		zap.Stringer("order_id", orderID),
		zap.Stringer("vendor_id", vendorID),
		zap.String("status", string(entry.Status)),
		zap.String("overall_status", string(o.OverallStatus)))
	s.publish(ctx, events.TopicVendorStatusChanged, orderID, vendorStatusEvent{
		OrderID: orderID, VendorID: vendorID, Status: entry.Status, OverallStatus: o.OverallStatus,
	})

	return &TransitionResult{
		OrderID:           orderID,
		VendorID:          vendorID,
		VendorStatus:      entry.Status,
		VendorDeliveredAt: entry.DeliveredAt,
		OverallStatus:     o.OverallStatus,
	}, nil
}

// ── Listings ────────────────────────────────────────────────────────────────

func (s *service) ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]VendorOrderView, error) {
	var (
		v     *vendor.Vendor
		owned []*catalog.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		v, err = s.vendors.GetVendor(gctx, vendorID)
		return err
	})
	g.Go(func() error {
		var err error
		owned, err = s.catalog.List(gctx, catalog.Filter{VendorID: vendorID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	itemIDs := make([]uuid.UUID, len(owned))
	for i, it := range owned {
		itemIDs[i] = it.ID
	}
	orders, err := s.repo.ListOrdersByVendor(ctx, vendorID, itemIDs)
	if err != nil {
		return nil, err
	}
	cat, err := s.catalogFor(ctx, orders)
	if err != nil {
		return nil, err
	}

	views := make([]VendorOrderView, 0, len(orders))
	for _, o := range orders {
		view := ProjectForVendor(o, vendorID, v.Name, cat)
		if len(view.Items) == 0 && o.Vendor(vendorID) == nil {
			continue
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *service) ListCustomerOrders(ctx context.Context, userID string) ([]CustomerOrderView, error) {
	orders, err := s.repo.ListOrdersByCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.customerViews(ctx, orders)
}

func (s *service) ListAllOrders(ctx context.Context) ([]CustomerOrderView, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return s.customerViews(ctx, orders)
}

// ── Repair ──────────────────────────────────────────────────────────────────

func (s *service) RepairVendorLinks(ctx context.Context) (int, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return 0, err
	}
	cat, err := s.catalogFor(ctx, orders)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, o := range orders {
		if len(MissingVendors(o, cat)) == 0 {
			continue
		}
		// recheck against the locked copy; a concurrent repair may have won
		var added []*VendorEntry
		_, err := s.repo.MutateVendors(ctx, o.ID, func(locked *Order) ([]uuid.UUID, error) {
			added = MissingVendors(locked, cat)
			ids := make([]uuid.UUID, len(added))
			for i, e := range added {
				locked.Vendors = append(locked.Vendors, e)
				ids[i] = e.VendorID
			}
			return ids, nil
		})
		if errors.Is(err, apperr.ErrOrderNotFound) {
			continue
		}
		if err != nil {
			metrics.OperationErrorsTotal.WithLabelValues("repair_vendor_links").Inc()
			return repaired, err
		}
		for _, e := range added {
			s.logger.Info("vendor entry backfilled",
				zap.Stringer("order_id", o.ID),
				zap.Stringer("vendor_id", e.VendorID),
				zap.String("vendor_name", e.VendorName))
		}
		repaired += len(added)
		metrics.VendorLinksRepairedTotal.Add(float64(len(added)))
	}
	s.logger.Info("vendor link repair finished", zap.Int("orders", len(orders)), zap.Int("repaired", repaired))
	return repaired, nil
}

// ── helpers ─────────────────────────────────────────────────────────────────

func (s *service) customerViews(ctx context.Context, orders []*Order) ([]CustomerOrderView, error) {
	cat, err := s.catalogFor(ctx, orders)
	if err != nil {
		return nil, err
	}
	views := make([]CustomerOrderView, len(orders))
	for i, o := range orders {
		views[i] = CustomerOrderView{Order: o, VendorGroups: GroupByVendor(o, cat)}
	}
	return views, nil
}

// catalogFor loads the current catalog record of every item in orders.
func (s *service) catalogFor(ctx context.Context, orders []*Order) (Catalog, error) {
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
		return Catalog{}, nil
	}
	items, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return Catalog(items), nil
}

func (s *service) publish(ctx context.Context, topic string, key uuid.UUID, payload any) {
	if err := s.publisher.Publish(ctx, topic, key.String(), payload); err != nil {
		s.logger.Warn("event publish failed", zap.String("topic", topic), zap.Stringer("key", key), zap.Error(err))
	}
}

// canSee allows admins everything and customers their own orders.
func canSee(actor auth.Principal, o *Order) error {
	if actor.Role == auth.RoleAdmin {
		return nil
	}
	if actor.Role == auth.RoleCustomer && actor.Subject == o.UserID {
		return nil
	}
	return fmt.Errorf("order %s: %w", o.ID, apperr.ErrForbidden)
}

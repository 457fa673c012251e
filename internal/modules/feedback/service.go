package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/events"
	"github.com/georgemunganga/foodcourt-backend/internal/metrics"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/order"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines feedback business logic.
type Service interface {
	// Submit records feedback for one item of one of the user's orders and
	// refreshes that item's rating.
	Submit(ctx context.Context, userID string, req SubmitRequest) (*Feedback, error)
	Check(ctx context.Context, userID string, orderID, itemID uuid.UUID) (bool, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*Feedback, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Feedback, error)
	ListByUser(ctx context.Context, userID string) ([]*Feedback, error)
	// RecomputeRatings rebuilds every item aggregate and returns the item count.
	RecomputeRatings(ctx context.Context) (int, error)
}

// OrderLookup finds the order a feedback entry refers to.
type OrderLookup interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
}

type service struct {
	repo       Repository
	orders     OrderLookup
	aggregator *RatingAggregator
	publisher  events.Publisher
	logger     *zap.Logger
}

func NewService(repo Repository, orders OrderLookup, aggregator *RatingAggregator, publisher events.Publisher, logger *zap.Logger) Service {
	return &service{repo: repo, orders: orders, aggregator: aggregator, publisher: publisher, logger: logger}
}

type feedbackEvent struct {
	FeedbackID    uuid.UUID `json:"feedback_id"`
	ItemID        uuid.UUID `json:"item_id"`
	VendorID      uuid.UUID `json:"vendor_id"`
	Rating        int       `json:"rating"`
	AverageRating float64   `json:"average_rating"`
	RatingCount   int       `json:"rating_count"`
}

func (s *service) Submit(ctx context.Context, userID string, req SubmitRequest) (*Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}
	if len(req.Photos) > MaxPhotos {
		return nil, apperr.Validation("at most %d photos allowed", MaxPhotos)
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, apperr.Validation("invalid order_id")
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, apperr.Validation("invalid item_id")
	}

	o, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("order %s belongs to another customer: %w", orderID, apperr.ErrForbidden)
	}
	line := lineFor(o, itemID)
	if line == nil {
		return nil, apperr.Validation("item %s is not part of order %s", itemID, orderID)
	}

	exists, err := s.repo.Exists(ctx, userID, orderID, itemID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrDuplicateFeedback
	}

	photos := req.Photos
	if photos == nil {
		photos = []string{}
	}
	f := &Feedback{
		ID:        uuid.New(),
		UserID:    userID,
		OrderID:   orderID,
		ItemID:    itemID,
		ItemName:  line.Name,
		VendorID:  line.VendorID,
		Rating:    req.Rating,
		Text:      strings.TrimSpace(req.Text),
		Photos:    photos,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	metrics.FeedbackRecordedTotal.Inc()

	// The entry is stored; a failed recompute is healed by the next write or batch run.
	summary, err := s.aggregator.RecomputeItem(ctx, itemID)
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("record_feedback").Inc()
		s.logger.Warn("rating recompute failed", zap.Stringer("item_id", itemID), zap.Error(err))
	}

	if err := s.publisher.Publish(ctx, events.TopicFeedbackRecorded, itemID.String(), feedbackEvent{
		FeedbackID:    f.ID,
		ItemID:        itemID,
		VendorID:      f.VendorID,
		Rating:        f.Rating,
		AverageRating: summary.AverageRating,
		RatingCount:   summary.RatingCount,
	}); err != nil {
		s.logger.Warn("event publish failed", zap.String("topic", events.TopicFeedbackRecorded), zap.Error(err))
	}

	s.logger.Info("feedback recorded",
		zap.Stringer("feedback_id", f.ID),
		zap.Stringer("item_id", itemID),
		zap.Int("rating", f.Rating))
	return f, nil
}

func (s *service) Check(ctx context.Context, userID string, orderID, itemID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, userID, orderID, itemID)
}

func (s *service) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*Feedback, error) {
	return s.repo.ListByItem(ctx, itemID)
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*Feedback, error) {
	return s.repo.ListByVendor(ctx, vendorID)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Feedback, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) RecomputeRatings(ctx context.Context) (int, error) {
	return s.aggregator.RecomputeAll(ctx)
}

func lineFor(o *order.Order, itemID uuid.UUID) *order.OrderItem {
	for _, it := range o.Items {
		if it.ItemID == itemID {
			return it
		}
	}
	return nil
}

package feedback

import (
	"context"
	"sync/atomic"

	"github.com/georgemunganga/foodcourt-backend/internal/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RatingStore is where item aggregates are written. The catalog repository satisfies it.
type RatingStore interface {
	ListItemIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateRating(ctx context.Context, id uuid.UUID, average float64, count int) error
}

// RatingAggregator keeps every item's (average, count) in line with its
// feedback. Each recompute reads the full feedback set for the item, so a
// lost concurrent update is repaired by the next recompute.
type RatingAggregator struct {
	feedback Repository
	items    RatingStore
	workers  int
	logger   *zap.Logger
}

func NewRatingAggregator(feedback Repository, items RatingStore, workers int, logger *zap.Logger) *RatingAggregator {
	if workers < 1 {
		workers = 1
	}
	return &RatingAggregator{feedback: feedback, items: items, workers: workers, logger: logger}
}

// Average is sum/count rounded half away from zero to one decimal, 0 when count is 0.
func Average(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	return decimal.NewFromInt(sum).
		DivRound(decimal.NewFromInt(count), 8).
		Round(1).
		InexactFloat64()
}

// RecomputeItem rebuilds one item's aggregate from scratch.
func (a *RatingAggregator) RecomputeItem(ctx context.Context, itemID uuid.UUID) (RatingSummary, error) {
	sum, count, err := a.feedback.Stats(ctx, itemID)
	if err != nil {
		return RatingSummary{}, err
	}
	s := RatingSummary{ItemID: itemID, AverageRating: Average(sum, count), RatingCount: int(count)}
	if err := a.items.UpdateRating(ctx, itemID, s.AverageRating, s.RatingCount); err != nil {
		return RatingSummary{}, err
	}
	metrics.RatingRecomputesTotal.Inc()
	return s, nil
}

// RecomputeAll rebuilds every catalog item's aggregate and returns how many
// items were processed. Items are independent, so they run in parallel up to
// the configured worker count; the first failure cancels the rest.
func (a *RatingAggregator) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := a.items.ListItemIDs(ctx)
	if err != nil {
		return 0, err
	}

	var processed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if _, err := a.RecomputeItem(gctx, id); err != nil {
				return err
			}
			processed.Add(1)
			return nil
		})
	}
	err = g.Wait()

	n := int(processed.Load())
	if err != nil {
		metrics.OperationErrorsTotal.WithLabelValues("recompute_ratings").Inc()
		a.logger.Error("rating recompute aborted", zap.Int("processed", n), zap.Int("items", len(ids)), zap.Error(err))
		return n, err
	}
	a.logger.Info("rating recompute finished", zap.Int("items", n))
	return n, nil
}

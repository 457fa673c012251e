package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_orders_placed_total",
		Help: "Total number of orders successfully placed.",
	})

	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_payments_total",
		Help: "Payment signals received, by outcome.",
	},
		[]string{"outcome"},
	)

	VendorTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_vendor_transitions_total",
		Help: "Applied per-vendor status transitions, by target status.",
	},
		[]string{"status"},
	)

	RejectedTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_vendor_transitions_rejected_total",
		Help: "Rejected per-vendor status transitions, by reason.",
	},
		[]string{"reason"},
	)

	VendorLinksRepairedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_vendor_links_repaired_total",
		Help: "Vendor entries backfilled onto orders by the repair job.",
	})

	FeedbackRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_feedback_recorded_total",
		Help: "Total number of feedback entries recorded.",
	})

	RatingRecomputesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodcourt_rating_recomputes_total",
		Help: "Catalog item rating aggregates recomputed.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodcourt_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)
)

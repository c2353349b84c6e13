package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"brewleaf/pkg/money"
)

// Metrics tracks checkout throughput and order lifecycle.
type Metrics struct {
	OrdersPlaced     prometheus.Counter
	RevenueCents     prometheus.Counter
	CheckoutFailures *prometheus.CounterVec
	CheckoutDuration prometheus.Histogram
	StatusChanges    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersPlaced: f.NewCounter(prometheus.CounterOpts{
			Name: "brewleaf_orders_placed_total",
			Help: "Orders placed through checkout",
		}),
		RevenueCents: f.NewCounter(prometheus.CounterOpts{
			Name: "brewleaf_order_revenue_cents_total",
			Help: "Sum of order totals in cents",
		}),
		CheckoutFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brewleaf_checkout_failures_total",
			Help: "Failed checkouts by reason",
		}, []string{"reason"}),
		CheckoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "brewleaf_checkout_duration_seconds",
			Help:    "Time to price, persist and confirm an order",
			Buckets: prometheus.DefBuckets,
		}),
		StatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brewleaf_order_status_changes_total",
			Help: "Admin order status updates by new status",
		}, []string{"status"}),
	}
}

func (m *Metrics) ObserveOrderPlaced(total money.Amount, started time.Time) {
	if m == nil {
		return
	}
	m.OrdersPlaced.Inc()
	m.RevenueCents.Add(float64(total.Cents()))
	m.CheckoutDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) IncrementCheckoutFailure(reason string) {
	if m == nil {
		return
	}
	m.CheckoutFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementStatusChange(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks cart session activity.
type Metrics struct {
	Mutations     *prometheus.CounterVec
	ItemsPerCart  prometheus.Histogram
	StoreFailures prometheus.Counter
}

// New registers the cart metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brewleaf_cart_mutations_total",
			Help: "Cart mutations by operation",
		}, []string{"op"}),
		ItemsPerCart: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "brewleaf_cart_items",
			Help:    "Total item quantity in a cart after each mutation",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		StoreFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "brewleaf_cart_store_failures_total",
			Help: "Failed cart session loads or saves",
		}),
	}
}

// ObserveMutation records a successful mutation and the resulting cart size.
func (m *Metrics) ObserveMutation(op string, totalItems int) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op).Inc()
	m.ItemsPerCart.Observe(float64(totalItems))
}

func (m *Metrics) IncrementStoreFailure() {
	if m == nil {
		return
	}
	m.StoreFailures.Inc()
}

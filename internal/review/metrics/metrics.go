package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks review submissions and rating recomputation.
type Metrics struct {
	Submitted  *prometheus.CounterVec
	Conflicts  prometheus.Counter
	Recomputed prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Submitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brewleaf_reviews_submitted_total",
			Help: "Accepted reviews by star rating",
		}, []string{"rating"}),
		Conflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "brewleaf_review_conflicts_total",
			Help: "Rejected second reviews of the same product by the same user",
		}),
		Recomputed: f.NewCounter(prometheus.CounterOpts{
			Name: "brewleaf_rating_recomputes_total",
			Help: "Product aggregates rewritten by a repair pass",
		}),
	}
}

func (m *Metrics) IncrementSubmitted(rating string) {
	if m == nil {
		return
	}
	m.Submitted.WithLabelValues(rating).Inc()
}

func (m *Metrics) IncrementConflict() {
	if m == nil {
		return
	}
	m.Conflicts.Inc()
}

func (m *Metrics) IncrementRecomputed() {
	if m == nil {
		return
	}
	m.Recomputed.Inc()
}

package table

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelAction  = "action"
	labelOutcome = "outcome"
)

// Metrics is shared by every table of a process. A nil *Metrics records
// nothing.
type Metrics struct {
	Actions       *prometheus.CounterVec
	Fetches       *prometheus.CounterVec
	FetchLatency  prometheus.Histogram
	SearchApplied prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_table_actions_total",
				Help: "Table actions by kind",
			},
			[]string{labelAction},
		),
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "product_table_fetches_total",
				Help: "Product list fetches by outcome",
			},
			[]string{labelOutcome},
		),
		FetchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "product_table_fetch_duration_seconds",
				Help:    "Product list fetch latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		),
		SearchApplied: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "product_table_search_applied_total",
				Help: "Debounced searches that recomputed the working list",
			},
		),
	}

	reg.MustRegister(m.Actions, m.Fetches, m.FetchLatency, m.SearchApplied)
	return m
}

func (m *Metrics) action(name string) {
	if m == nil {
		return
	}
	m.Actions.WithLabelValues(name).Inc()
}

func (m *Metrics) fetched(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(outcome).Inc()
	m.FetchLatency.Observe(d.Seconds())
}

func (m *Metrics) searchApplied() {
	if m == nil {
		return
	}
	m.SearchApplied.Inc()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// AvailabilityMetrics exposes counters/histograms for availability queries.
type AvailabilityMetrics struct {
	queriesTotal   *prometheus.CounterVec
	slotsReturned  prometheus.Histogram
	computeLatency prometheus.Histogram
}

func NewAvailabilityMetrics(reg prometheus.Registerer) *AvailabilityMetrics {
	m := &AvailabilityMetrics{
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agensalud",
			Subsystem: "availability",
			Name:      "queries_total",
			Help:      "Total availability queries by requester role and outcome",
		}, []string{"role", "status"}),
		slotsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agensalud",
			Subsystem: "availability",
			Name:      "slots_returned",
			Help:      "Available slots returned per query",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 200},
		}),
		computeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "agensalud",
			Subsystem: "availability",
			Name:      "compute_latency_seconds",
			Help:      "Latency of slot computation including data fetch",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.queriesTotal, m.slotsReturned, m.computeLatency)
	return m
}

func (m *AvailabilityMetrics) ObserveQuery(role, status string) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(role, status).Inc()
}

func (m *AvailabilityMetrics) ObserveSlots(available int) {
	if m == nil {
		return
	}
	m.slotsReturned.Observe(float64(available))
}

func (m *AvailabilityMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.computeLatency.Observe(seconds)
}

// Package metrics exposes Prometheus instrumentation for the availability
// endpoints.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// AvailabilityMetrics counts availability requests and times the engine.
type AvailabilityMetrics struct {
	requestsTotal  *prometheus.CounterVec
	computeLatency *prometheus.HistogramVec
	slotsReturned  prometheus.Histogram
}

func NewAvailabilityMetrics(reg prometheus.Registerer) *AvailabilityMetrics {
	m := &AvailabilityMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medagenda",
			Subsystem: "availability",
			Name:      "requests_total",
			Help:      "Total availability computations",
		}, []string{"endpoint", "outcome"}),
		computeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "medagenda",
			Subsystem: "availability",
			Name:      "compute_latency_seconds",
			Help:      "Latency of availability computations, fetch included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		slotsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medagenda",
			Subsystem: "availability",
			Name:      "slots_returned",
			Help:      "Number of slots returned per day request",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.computeLatency, m.slotsReturned)
	return m
}

func (m *AvailabilityMetrics) ObserveRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
}

func (m *AvailabilityMetrics) ObserveLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.computeLatency.WithLabelValues(endpoint).Observe(seconds)
}

func (m *AvailabilityMetrics) ObserveSlots(count int) {
	if m == nil {
		return
	}
	m.slotsReturned.Observe(float64(count))
}

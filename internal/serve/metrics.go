package serve

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks server-level counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	reviews       *prometheus.CounterVec
	duration      prometheus.Histogram
	probeFailures prometheus.Counter
	apiUp         prometheus.Gauge
}

// NewMetrics creates and registers the server collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		reviews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codevf_reviews_total",
			Help: "Review tool invocations by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "codevf_review_duration_seconds",
			Help: "Wall-clock duration of review invocations.",
			// Reviews are human-backed: buckets span seconds to an hour.
			Buckets: []float64{1, 5, 15, 60, 300, 900, 1800, 3600},
		}),
		probeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codevf_probe_failures_total",
			Help: "Failed API reachability probes.",
		}),
		apiUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "codevf_api_up",
			Help: "Whether the last API probe succeeded.",
		}),
	}

	registry.MustRegister(m.reviews, m.duration, m.probeFailures, m.apiUp)
	return m
}

// ObserveReview records one review invocation.
func (m *Metrics) ObserveReview(status string, elapsed time.Duration) {
	m.reviews.WithLabelValues(status).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// ObserveProbe records one API reachability probe.
func (m *Metrics) ObserveProbe(err error) {
	if err != nil {
		m.probeFailures.Inc()
		m.apiUp.Set(0)
		return
	}
	m.apiUp.Set(1)
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

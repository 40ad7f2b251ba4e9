package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application-level Prometheus metrics. Module-specific
// metrics (disclosure outcomes, suggester sources) live next to their modules.
type Metrics struct {
	HTTPLatency       *prometheus.HistogramVec
	ProfilesSubmitted prometheus.Counter
	SearchesServed    prometheus.Counter
}

// New creates and registers all application-level Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		HTTPLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "civitas_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),
		ProfilesSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civitas_profiles_submitted_total",
			Help: "Total number of civilian profile submissions",
		}),
		SearchesServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "civitas_searches_served_total",
			Help: "Total number of authority search requests served",
		}),
	}
}

// ObserveHTTPLatency records a request duration.
func (m *Metrics) ObserveHTTPLatency(method, path string, d time.Duration) {
	if m != nil {
		m.HTTPLatency.WithLabelValues(method, path).Observe(d.Seconds())
	}
}

// IncrementProfilesSubmitted records a profile submission.
func (m *Metrics) IncrementProfilesSubmitted() {
	if m != nil {
		m.ProfilesSubmitted.Inc()
	}
}

// IncrementSearchesServed records a served search.
func (m *Metrics) IncrementSearchesServed() {
	if m != nil {
		m.SearchesServed.Inc()
	}
}

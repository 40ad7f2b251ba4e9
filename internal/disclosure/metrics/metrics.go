package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the disclosure module.
type Metrics struct {
	// Gate outcomes by decision and requester role
	GateOutcome *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		GateOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "civitas_disclosure_outcomes_total",
			Help: "Total disclosure gate outcomes by decision and requester role",
		}, []string{"decision", "role"}),
	}
}

// IncrementOutcome records a gate decision.
func (m *Metrics) IncrementOutcome(decision, role string) {
	if m != nil {
		m.GateOutcome.WithLabelValues(decision, role).Inc()
	}
}

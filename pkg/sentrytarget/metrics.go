package sentrytarget

import (
	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
)

// Event kinds reported by Metrics.
const (
	kindException = "exception"
	kindMessage   = "message"
)

// Metrics counts what the forwarder sends and the enrichment steps it had
// to recover from.
type Metrics struct {
	events   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics creates the forwarder collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentrytarget",
			Name:      "events_total",
			Help:      "Events captured by the Sentry forwarder.",
		}, []string{"level", "kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentrytarget",
			Name:      "enrichment_failures_total",
			Help:      "Recovered panics in enrichment hooks.",
		}, []string{"step"}),
	}
	if reg != nil {
		reg.MustRegister(m.events, m.failures)
	}
	return m
}

// Collectors returns the underlying collectors for custom registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.events, m.failures}
}

func (m *Metrics) captured(level sentry.Level, kind string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(string(level), kind).Inc()
}

func (m *Metrics) failed(step string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(step).Inc()
}

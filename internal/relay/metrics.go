package relay

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects relay delivery counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Messages *prometheus.CounterVec
	Events   prometheus.Counter
}

// NewMetrics registers the relay collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lampions",
			Subsystem: "relay",
			Name:      "messages_total",
			Help:      "Messages processed, partitioned by outcome.",
		}, []string{"outcome"}),
		Events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lampions",
			Subsystem: "relay",
			Name:      "event_requests_total",
			Help:      "Receipt event requests received.",
		}),
	}
	registry.MustRegister(m.Messages, m.Events)
	return m
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

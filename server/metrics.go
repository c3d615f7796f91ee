package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the Prometheus instruments for one Server. Each Server
// carries its own registry so repeated construction (as in tests) never
// trips duplicate registration.
type metrics struct {
	registry  *prometheus.Registry
	toolCalls *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &metrics{
		registry: registry,
		toolCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lectern_tool_calls_total",
			Help: "Tool invocations by tool name and outcome.",
		}, []string{"tool", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lectern_tool_call_duration_seconds",
			Help:    "Tool execution latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tool"}),
	}
}

func (m *metrics) observe(tool, status string, seconds float64) {
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.duration.WithLabelValues(tool).Observe(seconds)
}

func (m *metrics) handler() http.HandlerFunc {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP
}

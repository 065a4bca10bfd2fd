package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks tool execution outcomes for the /mcp/metrics endpoint.
type Metrics struct {
	registry   *prometheus.Registry
	executions *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	reloads    prometheus.Counter
}

// NewMetrics creates a self-contained metrics registry so tests can hold
// independent instances.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "toolhub_executions_total",
			Help: "Tool executions by server, tool and outcome.",
		}, []string{"server", "tool", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "toolhub_execution_duration_seconds",
			Help:    "Tool execution wall-clock duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"server", "tool"}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "toolhub_registry_reloads_total",
			Help: "Registry cache reloads (manual and watcher-triggered).",
		}),
	}
	reg.MustRegister(m.executions, m.duration, m.reloads)
	return m
}

// ObserveExecution records one tool invocation.
func (m *Metrics) ObserveExecution(server, tool string, success bool, seconds float64) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.executions.WithLabelValues(server, tool, outcome).Inc()
	m.duration.WithLabelValues(server, tool).Observe(seconds)
}

// ObserveReload records one registry reload.
func (m *Metrics) ObserveReload() {
	m.reloads.Inc()
}

// Handler serves the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Package metrics exports Prometheus metrics for action execution.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storyflow/internal/action"
)

// StepMetrics records one sample per executed step. It implements
// [action.Observer].
type StepMetrics struct {
	gatherer prometheus.Gatherer

	// stepsTotal counts steps by action and result status.
	stepsTotal *prometheus.CounterVec

	// stepDuration tracks how long each action ran.
	stepDuration *prometheus.HistogramVec
}

var _ action.Observer = (*StepMetrics)(nil)

// New registers the step metrics on reg. A nil reg creates a private
// registry that also carries the Go runtime and process collectors.
func New(reg *prometheus.Registry) *StepMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &StepMetrics{
		gatherer: reg,
		stepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storyflow_action_steps_total",
			Help: "Total number of executed action steps by action and result status",
		}, []string{"action", "status"}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storyflow_action_duration_seconds",
			Help:    "Duration of action execution by action",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"action"}),
	}
}

// ObserveStep records a step outcome.
func (m *StepMetrics) ObserveStep(name action.Name, status action.Status, d time.Duration) {
	m.stepsTotal.WithLabelValues(sanitizeAction(name), string(status)).Inc()
	m.stepDuration.WithLabelValues(sanitizeAction(name)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *StepMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func sanitizeAction(name action.Name) string {
	if name == "" {
		return "unknown"
	}
	return name.String()
}

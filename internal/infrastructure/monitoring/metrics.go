// Package monitoring provides Prometheus metrics for the gateway.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Tool metrics
	ToolCalls    *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
	ToolErrors   *prometheus.CounterVec

	// Generation metrics
	GenerationSteps    prometheus.Histogram
	GenerationDuration prometheus.Histogram
	FormatViolations   prometheus.Counter
	StepCeilingHits    prometheus.Counter

	// Rate limit metrics
	RateLimited prometheus.Counter
}

// NewMetrics creates a metrics collector using the provided registerer,
// or the default registerer when nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatd_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		ToolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatd_tool_calls_total",
				Help: "Total number of tool executions requested by the model",
			},
			[]string{"tool", "status"},
		),
		ToolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatd_tool_duration_seconds",
				Help:    "Tool execution duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"tool"},
		),
		ToolErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatd_tool_errors_total",
				Help: "Total number of failed tool executions",
			},
			[]string{"tool"},
		),
		GenerationSteps: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatd_generation_steps",
				Help:    "Number of model steps per chat request",
				Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
			},
		),
		GenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chatd_generation_duration_seconds",
				Help:    "Wall-clock duration of the whole generation loop",
				Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 30},
			},
		),
		FormatViolations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatd_format_violations_total",
				Help: "Final responses that looked like raw JSON despite prompt instructions",
			},
		),
		StepCeilingHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatd_step_ceiling_hits_total",
				Help: "Generation loops terminated by the step ceiling",
			},
		),
		RateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "chatd_rate_limited_total",
				Help: "Chat requests rejected by the rate limiter",
			},
		),
	}
}

// RecordTool records one tool execution.
func (m *Metrics) RecordTool(tool string, success bool, duration time.Duration) {
	status := "ok"
	if !success {
		status = "error"
		m.ToolErrors.WithLabelValues(tool).Inc()
	}
	m.ToolCalls.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

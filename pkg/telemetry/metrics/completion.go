package metrics

import (
	"time"

	"mercator-hq/converse/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CompletionMetrics tracks chat completion calls.
//
// Metrics:
//   - converse_completions_total: Completion count by model and status
//   - converse_completion_errors_total: Failed completions by model and error type
//   - converse_completion_duration_seconds: Completion latency histogram
//   - converse_request_messages: Messages sent per request
type CompletionMetrics struct {
	// Total completion count
	completionsTotal *prometheus.CounterVec

	// Failed completions by error kind
	errorsTotal *prometheus.CounterVec

	// Completion duration histogram
	duration *prometheus.HistogramVec

	// Messages sent per request (system + chat window)
	requestMessages *prometheus.HistogramVec
}

// NewCompletionMetrics creates and registers completion metrics with the provided registry.
func NewCompletionMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CompletionMetrics {
	cm := &CompletionMetrics{
		completionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "completions_total",
				Help:      "Total number of chat completion calls",
			},
			[]string{"model", "status"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "completion_errors_total",
				Help:      "Total number of failed chat completion calls by error type",
			},
			[]string{"model", "error_type"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "completion_duration_seconds",
				Help:      "Duration of chat completion calls in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"model"},
		),

		requestMessages: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "request_messages",
				Help:      "Number of messages sent per completion request",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1 to 128
			},
			[]string{"model"},
		),
	}

	registry.MustRegister(
		cm.completionsTotal,
		cm.errorsTotal,
		cm.duration,
		cm.requestMessages,
	)

	return cm
}

// RecordCompletion records the outcome of one completion call.
// errorType is ignored when status is not "error".
func (cm *CompletionMetrics) RecordCompletion(model, status, errorType string, duration time.Duration, messages int) {
	cm.completionsTotal.WithLabelValues(model, status).Inc()
	cm.duration.WithLabelValues(model).Observe(duration.Seconds())
	cm.requestMessages.WithLabelValues(model).Observe(float64(messages))

	if status == "error" {
		cm.errorsTotal.WithLabelValues(model, errorType).Inc()
	}
}

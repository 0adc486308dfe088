package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mercator-hq/converse/pkg/config"
	"mercator-hq/converse/pkg/conversation"
	"mercator-hq/converse/pkg/providers"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultMaxCardinality bounds the number of distinct model label values.
const DefaultMaxCardinality = 100

// Collector owns the Prometheus registry for converse and records
// completion, transcript and credential metrics.
//
// Collector implements conversation.Observer, so it can be installed
// directly on a client:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	client.SetObserver(collector)
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Completion metrics
	completionMetrics *CompletionMetrics

	// Transcript and credential metrics
	storeMetrics *StoreMetrics

	// Cardinality tracking for the model label
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "converse",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(DefaultMaxCardinality),
	}

	c.completionMetrics = NewCompletionMetrics(cfg, registry)
	c.storeMetrics = NewStoreMetrics(cfg, registry)

	return c
}

// ObserveCompletion records one completion call.
func (c *Collector) ObserveCompletion(_ context.Context, event conversation.CompletionEvent) {
	c.RecordCompletion(event.Model, event.Status(), providers.ErrorKind(event.Err), event.Duration, len(event.Messages))
}

// RecordCompletion records the outcome of a completion call.
//
// Parameters:
//   - model: Model name (e.g., "gpt-4o-mini")
//   - status: "success" or "error"
//   - errorType: providers.ErrorKind of the failure (e.g., "http_status", "transport")
//   - duration: Wall time of the call
//   - messages: Number of messages sent
func (c *Collector) RecordCompletion(model, status, errorType string, duration time.Duration, messages int) {
	if !c.config.Enabled {
		return
	}

	// Aggregate into "other" to prevent cardinality explosion
	labelSet := fmt.Sprintf("model:%s", model)
	if !c.cardinalityLimiter.Allow(labelSet) {
		model = "other"
	}

	c.completionMetrics.RecordCompletion(model, status, errorType, duration, messages)
}

// RecordTranscriptWrite records one transcript append.
func (c *Collector) RecordTranscriptWrite(err error) {
	if !c.config.Enabled {
		return
	}

	c.storeMetrics.RecordWrite(err)
}

// RecordTranscriptPrune records one retention pruning run.
func (c *Collector) RecordTranscriptPrune(deleted int64, err error) {
	if !c.config.Enabled {
		return
	}

	c.storeMetrics.RecordPrune(deleted, err)
}

// RecordCredentialLoad records one credential read from source
// ("env" or "file").
func (c *Collector) RecordCredentialLoad(source string, err error) {
	if !c.config.Enabled {
		return
	}

	c.storeMetrics.RecordCredentialLoad(source, err)
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c.config.Enabled
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}

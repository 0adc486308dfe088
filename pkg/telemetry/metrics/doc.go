// Package metrics provides Prometheus metrics collection for converse.
//
// # Overview
//
// The Collector owns a private prometheus.Registry and records:
//
//   - Completion metrics: call count by status, failures by error type,
//     latency and the number of messages sent per request
//   - Transcript metrics: appends, pruning runs and pruned entries
//   - Credential metrics: credential reads by source
//
// Model names are bounded by a cardinality limiter; once the limit is
// reached new models are recorded as "other". Session ids are never used
// as label values.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	client.SetObserver(collector)
//
//	mux := http.NewServeMux()
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// A collector built from a disabled MetricsConfig is a no-op.
package metrics

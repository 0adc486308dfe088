// Package telemetry groups the observability packages used by converse.
//
// # Components
//
//   - logging: structured slog logging with credential redaction
//   - metrics: Prometheus counters and histograms for completions,
//     credential loads and transcript writes
//   - tracing: one OpenTelemetry span per completion, exported over OTLP
//   - health: readiness checks for the credential, endpoint and transcript store
//
// Metrics and tracing attach to a conversation through its observer hook,
// so the conversation package itself has no telemetry dependency.
//
// # Configuration
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: console
//	  metrics:
//	    enabled: true
//	    listen_address: "127.0.0.1:9090"
//	  tracing:
//	    enabled: false
//
// When metrics are enabled the listener also serves the health report on
// /healthz.
package telemetry

// Package tracing exports one OpenTelemetry span per completion call.
//
// # Overview
//
// A Tracer owns an SDK tracer provider that batches spans to an OTLP/gRPC
// collector. Its Observer plugs into the conversation client's observer
// hook, next to the metrics collector and the transcript recorder:
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	client.SetObserver(conversation.Observers{collector, tracer.Observer()})
//
// # Spans
//
// Each completion produces a client span named "chat.completion" whose
// start time is back-dated by the call's duration. Attributes:
//
//   - gen_ai.system, gen_ai.request.model
//   - converse.session_id, converse.request_id
//   - converse.request.messages: number of messages sent
//   - converse.history.size: chat window length at call time
//   - converse.response.length: reply length in bytes (success only)
//   - error.type: transport, http_status, malformed_response, ... (failure only)
//
// If the caller's context already carries a span, the completion span
// becomes its child.
//
// # Configuration
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: "localhost:4317"
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.25
//
// When tracing is disabled New returns a noop tracer and Enabled reports
// false.
package tracing

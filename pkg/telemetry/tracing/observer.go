package tracing

import (
	"context"
	"time"

	"mercator-hq/converse/pkg/conversation"
	"mercator-hq/converse/pkg/providers"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanCompletion is the name of the span recorded for each completion.
const SpanCompletion = "chat.completion"

// Span attribute keys.
const (
	AttrSystem          = "gen_ai.system"
	AttrRequestModel    = "gen_ai.request.model"
	AttrSessionID       = "converse.session_id"
	AttrRequestID       = "converse.request_id"
	AttrRequestMessages = "converse.request.messages"
	AttrHistorySize     = "converse.history.size"
	AttrResponseLength  = "converse.response.length"
	AttrErrorType       = "error.type"
)

// Observer returns a conversation observer that records one client span
// per completion call. The span is back-dated by the call's duration so it
// covers the HTTP round trip.
func (t *Tracer) Observer() conversation.Observer {
	return conversation.ObserverFunc(t.observeCompletion)
}

func (t *Tracer) observeCompletion(ctx context.Context, event conversation.CompletionEvent) {
	end := time.Now()

	_, span := t.Start(ctx, SpanCompletion,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithTimestamp(end.Add(-event.Duration)),
		trace.WithAttributes(
			attribute.String(AttrSystem, "openai"),
			attribute.String(AttrRequestModel, event.Model),
			attribute.String(AttrSessionID, event.SessionID),
			attribute.String(AttrRequestID, event.RequestID),
			attribute.Int(AttrRequestMessages, len(event.Messages)),
			attribute.Int(AttrHistorySize, event.HistorySize),
		),
	)

	if event.Err != nil {
		SetError(span, event.Err, providers.ErrorKind(event.Err))
	} else {
		span.SetAttributes(attribute.Int(AttrResponseLength, len(event.Content)))
		span.SetStatus(codes.Ok, "")
	}

	span.End(trace.WithTimestamp(end))
}

package conversation

import (
	"context"
	"time"

	"mercator-hq/converse/pkg/providers"
)

// Completion statuses reported by CompletionEvent.Status.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// CompletionEvent describes one finished completion call.
type CompletionEvent struct {
	// SessionID identifies the conversation
	SessionID string

	// RequestID is unique per completion call
	RequestID string

	// Model is the model identifier that was sent
	Model string

	// Messages is the full sequence that was sent
	Messages []providers.Message

	// HistorySize is the chat window length at the time of the call
	HistorySize int

	// Duration is the wall time of the call, including the HTTP round trip
	Duration time.Duration

	// Content is the completion text (empty on error)
	Content string

	// Err is the error returned to the caller, if any
	Err error
}

// Status returns StatusSuccess or StatusError.
func (e CompletionEvent) Status() string {
	if e.Err != nil {
		return StatusError
	}
	return StatusSuccess
}

// LastMessage returns the final message that was sent, if any.
func (e CompletionEvent) LastMessage() (providers.Message, bool) {
	if len(e.Messages) == 0 {
		return providers.Message{}, false
	}
	return e.Messages[len(e.Messages)-1], true
}

// Observer is notified after every completion call, on the caller's
// goroutine. Implementations must not call back into the Client.
type Observer interface {
	ObserveCompletion(ctx context.Context, event CompletionEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, event CompletionEvent)

// ObserveCompletion calls f.
func (f ObserverFunc) ObserveCompletion(ctx context.Context, event CompletionEvent) {
	f(ctx, event)
}

// Observers fans an event out to several observers in order.
type Observers []Observer

// ObserveCompletion notifies each non-nil observer.
func (o Observers) ObserveCompletion(ctx context.Context, event CompletionEvent) {
	for _, observer := range o {
		if observer != nil {
			observer.ObserveCompletion(ctx, event)
		}
	}
}

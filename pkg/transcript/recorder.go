package transcript

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/converse/pkg/conversation"
	"mercator-hq/converse/pkg/providers"
)

// DefaultWriteTimeout bounds a single transcript write.
const DefaultWriteTimeout = 5 * time.Second

// Recorder stores successful completion exchanges. It implements
// conversation.Observer.
//
// For each successful call it appends every user message sent since the
// last non-user message, followed by the assistant reply. Failed calls are
// not recorded on their own: their user turns are stored with the next
// answered call, which sent them again. A stored session therefore replays
// into the same window the live client held, as long as every reply was
// pushed back into history.
type Recorder struct {
	store        Store
	metrics      Metrics
	logger       *slog.Logger
	writeTimeout time.Duration
	now          func() time.Time
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store:        store,
		metrics:      noopMetrics{},
		logger:       slog.Default().With("component", "transcript.recorder"),
		writeTimeout: DefaultWriteTimeout,
		now:          time.Now,
	}
}

// WithMetrics sets the metrics sink and returns the recorder.
func (r *Recorder) WithMetrics(m Metrics) *Recorder {
	if m != nil {
		r.metrics = m
	}
	return r
}

// WithLogger sets the logger and returns the recorder.
func (r *Recorder) WithLogger(logger *slog.Logger) *Recorder {
	if logger != nil {
		r.logger = logger.With("component", "transcript.recorder")
	}
	return r
}

// ObserveCompletion records the exchange of a successful completion.
func (r *Recorder) ObserveCompletion(ctx context.Context, event conversation.CompletionEvent) {
	if event.Err != nil {
		return
	}

	entries := r.entriesFor(event)

	// The caller's context may already be done once the reply is in hand.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
	defer cancel()

	err := r.store.Append(writeCtx, entries...)
	r.metrics.RecordTranscriptWrite(err)
	if err != nil {
		r.logger.Error("failed to record transcript",
			"session", event.SessionID,
			"request_id", event.RequestID,
			"error", err,
		)
		return
	}

	r.logger.Debug("transcript recorded",
		"session", event.SessionID,
		"request_id", event.RequestID,
		"entries", len(entries),
	)
}

func (r *Recorder) entriesFor(event conversation.CompletionEvent) []Entry {
	at := r.now()
	users := trailingUserMessages(event.Messages)
	entries := make([]Entry, 0, len(users)+1)

	for _, msg := range users {
		entries = append(entries, Entry{
			SessionID: event.SessionID,
			RequestID: event.RequestID,
			Role:      msg.Role,
			Content:   msg.Content,
			Model:     event.Model,
			CreatedAt: at,
		})
		at = at.Add(time.Nanosecond)
	}

	entries = append(entries, Entry{
		SessionID: event.SessionID,
		RequestID: event.RequestID,
		Role:      providers.RoleAssistant,
		Content:   event.Content,
		Model:     event.Model,
		// Keep the reply strictly after the prompts
		CreatedAt: at,
	})

	return entries
}

// trailingUserMessages returns the user messages sent after the last
// non-user message.
func trailingUserMessages(msgs []providers.Message) []providers.Message {
	start := len(msgs)
	for start > 0 && msgs[start-1].Role == providers.RoleUser {
		start--
	}
	return msgs[start:]
}

package transcript

import (
	"context"
	"time"
)

// Entry is one stored conversation message.
type Entry struct {
	// ID uniquely identifies the entry (UUID)
	ID string `json:"id"`

	// SessionID groups entries into one conversation
	SessionID string `json:"session_id"`

	// RequestID is the completion call that produced or sent this entry
	RequestID string `json:"request_id,omitempty"`

	// Role is "user" or "assistant"
	Role string `json:"role"`

	// Content is the message text
	Content string `json:"content"`

	// Model is the model the message was exchanged with
	Model string `json:"model,omitempty"`

	// CreatedAt is when the entry was recorded
	CreatedAt time.Time `json:"created_at"`
}

// SessionSummary describes one stored conversation.
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	Entries   int       `json:"entries"`
	FirstAt   time.Time `json:"first_at"`
	LastAt    time.Time `json:"last_at"`

	// Preview is the first user message of the session
	Preview string `json:"preview"`
}

// Store persists transcript entries.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores entries in order. Entries without an ID or CreatedAt
	// get one assigned.
	Append(ctx context.Context, entries ...Entry) error

	// Session returns the entries of one session in insertion order.
	// It returns ErrSessionNotFound when the session has no entries.
	Session(ctx context.Context, sessionID string) ([]Entry, error)

	// Sessions lists stored sessions, most recently active first.
	Sessions(ctx context.Context) ([]SessionSummary, error)

	// DeleteBefore removes entries created before cutoff and returns
	// the number of deleted entries.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the underlying resources.
	Close() error
}

// Metrics receives transcript write and pruning outcomes.
// *metrics.Collector satisfies it.
type Metrics interface {
	RecordTranscriptWrite(err error)
	RecordTranscriptPrune(deleted int64, err error)
}

type noopMetrics struct{}

func (noopMetrics) RecordTranscriptWrite(error) {}
func (noopMetrics) RecordTranscriptPrune(int64, error) {}

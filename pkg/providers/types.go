package providers

import "time"

// Message represents a single turn in a conversation.
// Role is stored as free text and is not validated.
type Message struct {
	// Role identifies the message sender (system, user, assistant)
	Role string `json:"role"`

	// Content is the message text content
	Content string `json:"content"`
}

// HTTPClientConfig contains the connection pool settings used to build the
// shared HTTP client handle.
type HTTPClientConfig struct {
	// Timeout is the overall request timeout (0 means no timeout)
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration
}

// Message role constants
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NewMessage returns a Message with the given role and content.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

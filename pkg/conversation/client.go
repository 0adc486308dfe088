package conversation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"mercator-hq/converse/pkg/providers"
	"mercator-hq/converse/pkg/providers/openai"
)

// DefaultHistoryLimit is the default bound of the chat history window.
const DefaultHistoryLimit uint = 30

// maxResponseBytes caps how much of a response body is read.
var maxResponseBytes int64 = 10 << 20

// Client is a single conversation with a chat completion API.
//
// It holds persistent system messages plus a sliding window of user and
// assistant turns, and sends the whole sequence on every Completion call.
// Completion never pushes the reply into history; callers that want
// continuity call PushAssistantMessage with the returned text.
//
// A Client is not safe for concurrent use. Give each conversation its own
// Client and access it from one goroutine at a time. The HTTP client handle
// may be shared freely between Clients.
type Client struct {
	credential   string
	httpClient   *http.Client
	model        string
	endpoint     string
	historyLimit uint

	systemMessages []providers.Message
	chatMessages   []providers.Message

	sessionID string
	logger    *slog.Logger
	observer  Observer
}

// New creates a Client with empty histories, the default model and the
// default history limit. A nil httpClient selects the shared pooled client.
func New(credential string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = providers.DefaultHTTPClient()
	}

	return &Client{
		credential:   credential,
		httpClient:   httpClient,
		model:        openai.DefaultModel,
		endpoint:     openai.DefaultEndpoint,
		historyLimit: DefaultHistoryLimit,
		sessionID:    uuid.New().String(),
		logger:       slog.Default(),
	}
}

// SetCredential replaces the API credential.
func (c *Client) SetCredential(credential string) *Client {
	c.credential = credential
	return c
}

// SetModel replaces the model identifier sent with each request.
func (c *Client) SetModel(model string) *Client {
	c.model = model
	return c
}

// SetHTTPClient replaces the shared HTTP client handle.
func (c *Client) SetHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// SetHistoryLimit replaces the chat history bound. Existing history is not
// trimmed until the next push.
func (c *Client) SetHistoryLimit(limit uint) *Client {
	c.historyLimit = limit
	return c
}

// SetEndpoint replaces the chat completions URL.
func (c *Client) SetEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

// SetSessionID replaces the session identifier used in logs and transcripts.
func (c *Client) SetSessionID(sessionID string) *Client {
	c.sessionID = sessionID
	return c
}

// SetLogger replaces the logger that receives diagnostic lines.
func (c *Client) SetLogger(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c.logger = logger
	return c
}

// SetObserver installs an observer notified after every completion call.
// Use Observers to install more than one.
func (c *Client) SetObserver(observer Observer) *Client {
	c.observer = observer
	return c
}

// Model returns the configured model identifier.
func (c *Client) Model() string { return c.model }

// Endpoint returns the chat completions URL.
func (c *Client) Endpoint() string { return c.endpoint }

// HistoryLimit returns the chat history bound.
func (c *Client) HistoryLimit() uint { return c.historyLimit }

// SessionID returns the session identifier.
func (c *Client) SessionID() string { return c.sessionID }

// PushSystemMessage appends a system message. System messages are never
// evicted.
func (c *Client) PushSystemMessage(prompt string) {
	c.systemMessages = append(c.systemMessages, providers.NewMessage(providers.RoleSystem, prompt))
}

// PushUserMessage appends a user message to the chat window.
func (c *Client) PushUserMessage(input string) {
	c.pushChatMessage(providers.RoleUser, input)
}

// PushAssistantMessage appends an assistant message to the chat window.
func (c *Client) PushAssistantMessage(input string) {
	c.pushChatMessage(providers.RoleAssistant, input)
}

// pushChatMessage evicts from the front while the window is over the limit,
// then appends. The check runs before the append, so the window holds at
// most historyLimit+1 messages.
func (c *Client) pushChatMessage(role, content string) {
	for uint(len(c.chatMessages)) > c.historyLimit {
		c.chatMessages = append(c.chatMessages[:0], c.chatMessages[1:]...)
	}

	c.chatMessages = append(c.chatMessages, providers.NewMessage(role, content))
}

// SystemMessages returns a copy of the system messages.
func (c *Client) SystemMessages() []providers.Message {
	return append([]providers.Message(nil), c.systemMessages...)
}

// ChatMessages returns a copy of the chat window.
func (c *Client) ChatMessages() []providers.Message {
	return append([]providers.Message(nil), c.chatMessages...)
}

// Messages returns every system message followed by every chat message, each
// in insertion order. The result is a fresh slice.
func (c *Client) Messages() []providers.Message {
	msgs := make([]providers.Message, 0, len(c.systemMessages)+len(c.chatMessages))
	msgs = append(msgs, c.systemMessages...)
	msgs = append(msgs, c.chatMessages...)
	return msgs
}

// Completion sends the current message sequence and returns the text of the
// first choice.
//
// Failures are logged at error level and returned as *providers.ConfigError,
// *providers.TransportError, *providers.HTTPStatusError or
// *providers.MalformedResponseError. Nothing is retried. Bodies larger than
// 10 MiB are not read past the limit: a 2xx reply that size is malformed,
// an error reply keeps its first 10 MiB.
func (c *Client) Completion(ctx context.Context) (string, error) {
	msgs := c.Messages()
	requestID := uuid.New().String()
	logger := c.logger.With(
		"session", c.sessionID,
		"request_id", requestID,
		"model", c.model,
	)

	start := time.Now()
	content, err := c.complete(ctx, logger, msgs)

	if c.observer != nil {
		c.observer.ObserveCompletion(ctx, CompletionEvent{
			SessionID:   c.sessionID,
			RequestID:   requestID,
			Model:       c.model,
			Messages:    msgs,
			HistorySize: len(c.chatMessages),
			Duration:    time.Since(start),
			Content:     content,
			Err:         err,
		})
	}

	return content, err
}

func (c *Client) complete(ctx context.Context, logger *slog.Logger, msgs []providers.Message) (string, error) {
	if err := c.checkEndpoint(); err != nil {
		logger.ErrorContext(ctx, "invalid endpoint", "error", err)
		return "", err
	}

	body, err := openai.BuildRequest(c.model, msgs).Marshal()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.credential)
	req.Header.Set("Content-Type", "application/json")

	logger.DebugContext(ctx, "sending completion request",
		"endpoint", c.endpoint,
		"messages", len(msgs),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "error sending request", "error", err)
		return "", &providers.TransportError{
			Provider: openai.ProviderName,
			Cause:    err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		logger.ErrorContext(ctx, "error reading response", "error", err)
		return "", &providers.TransportError{
			Provider: openai.ProviderName,
			Cause:    fmt.Errorf("failed to read response: %w", err),
		}
	}

	oversized := int64(len(respBody)) > maxResponseBytes
	if oversized {
		respBody = respBody[:maxResponseBytes]
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &providers.HTTPStatusError{
			Provider:   openai.ProviderName,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
			Cause:      fmt.Errorf("HTTP status %s for url (%s)", resp.Status, c.endpoint),
		}
		logger.ErrorContext(ctx, "error in response status",
			"status", resp.StatusCode,
			"error", statusErr.Cause,
		)
		return "", statusErr
	}

	if oversized {
		err := &providers.MalformedResponseError{
			Provider: openai.ProviderName,
			Cause:    fmt.Errorf("response body exceeds %d bytes", maxResponseBytes),
		}
		logger.ErrorContext(ctx, "error parsing response", "error", err)
		return "", err
	}

	content, err := openai.ExtractContent(respBody)
	if err != nil {
		logger.ErrorContext(ctx, "error parsing response", "error", err)
		return "", err
	}

	logger.DebugContext(ctx, "completion received", "content_length", len(content))
	return content, nil
}

// checkEndpoint reports an endpoint that is not an absolute http(s) URL.
func (c *Client) checkEndpoint() error {
	message := "must be an absolute http or https URL"
	if c.endpoint == "" {
		message = "must not be empty"
	} else if u, err := url.Parse(c.endpoint); err == nil &&
		(u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return nil
	}

	return &providers.ConfigError{
		Provider: openai.ProviderName,
		Field:    "endpoint",
		Message:  message,
	}
}

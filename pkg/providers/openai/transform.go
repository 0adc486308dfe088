package openai

import (
	"encoding/json"
	"errors"
	"fmt"

	"mercator-hq/converse/pkg/providers"
)

const (
	// ProviderName is the name used in errors and log fields.
	ProviderName = "openai"

	// DefaultEndpoint is the chat completions URL.
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

	// DefaultModel is the model sent when none is configured.
	DefaultModel = "gpt-4o-mini"
)

// ChatRequest represents an OpenAI chat completion request.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// ChatMessage represents a message in OpenAI format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildRequest transforms a model name and message list to OpenAI format.
// Messages is never nil so an empty history is encoded as [].
func BuildRequest(model string, messages []providers.Message) *ChatRequest {
	req := &ChatRequest{
		Model:    model,
		Messages: make([]ChatMessage, len(messages)),
	}

	for i, msg := range messages {
		req.Messages[i] = ChatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	return req
}

// Marshal encodes the request as a JSON body.
func (r *ChatRequest) Marshal() ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return body, nil
}

// ExtractContent returns choices[0].message.content from a chat completion
// response body.
//
// The body is decoded generically so that every shape violation can be
// reported precisely instead of being zero-valued away.
func ExtractContent(body []byte) (string, error) {
	var resp map[string]any
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", malformed(body, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	rawChoices, ok := resp["choices"]
	if !ok {
		return "", malformed(body, errors.New("choices is missing"))
	}
	choices, ok := rawChoices.([]any)
	if !ok {
		return "", malformed(body, errors.New("choices is not an array"))
	}
	if len(choices) == 0 {
		return "", malformed(body, errors.New("no choices in response"))
	}

	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", malformed(body, errors.New("choices[0] is not an object"))
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return "", malformed(body, errors.New("choices[0].message is not an object"))
	}
	content, ok := message["content"].(string)
	if !ok {
		return "", malformed(body, errors.New("content is not a string"))
	}

	return content, nil
}

func malformed(body []byte, cause error) *providers.MalformedResponseError {
	return &providers.MalformedResponseError{
		Provider:    ProviderName,
		RawResponse: string(body),
		Cause:       cause,
	}
}

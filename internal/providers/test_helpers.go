package providers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"mercator-hq/converse/pkg/providers"
)

// CompletionsPath is the path the mock server serves completions on.
const CompletionsPath = "/v1/chat/completions"

// TestHTTPClient returns a pooled client with a short timeout for tests.
func TestHTTPClient() *http.Client {
	return providers.NewHTTPClient(providers.HTTPClientConfig{
		Timeout:             5 * time.Second,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
	})
}

// CompletionsURL returns the completions endpoint of the mock server.
func (ms *MockServer) CompletionsURL() string {
	return ms.URL() + CompletionsPath
}

// SentBody is the decoded JSON body of a chat completion request.
type SentBody struct {
	Model    string              `json:"model"`
	Messages []providers.Message `json:"messages"`
}

// DecodeSentBody decodes the body of the most recent request.
func DecodeSentBody(t *testing.T, ms *MockServer) SentBody {
	t.Helper()

	req, ok := ms.LastRequest()
	if !ok {
		t.Fatal("expected a request to have been sent")
	}

	var body SentBody
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("failed to decode request body %q: %v", string(req.Body), err)
	}
	return body
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

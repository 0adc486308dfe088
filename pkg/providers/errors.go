package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error kinds reported by ErrorKind.
const (
	KindTransport         = "transport"
	KindHTTPStatus        = "http_status"
	KindMalformedResponse = "malformed_response"
	KindCanceled          = "canceled"
	KindConfig            = "config"
	KindUnknown           = "unknown"
)

// TransportError represents a failure before any response was obtained
// (connection refused, DNS failure, timeout, TLS error).
type TransportError struct {
	// Provider is the name of the provider the request was sent to
	Provider string

	// Cause is the underlying transport error
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("provider %q transport error: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// maxErrorBody is how much of a response body HTTPStatusError.Error includes.
const maxErrorBody = 512

// HTTPStatusError represents a non-2xx response from the provider.
// The response body is kept verbatim as Body and is not otherwise inspected.
// Error shows at most the first 512 bytes of it.
type HTTPStatusError struct {
	// Provider is the name of the provider that returned the status
	Provider string

	// StatusCode is the HTTP status code
	StatusCode int

	// Status is the HTTP status line text (e.g. "401 Unauthorized")
	Status string

	// Body is the raw response body
	Body string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Body != "" {
		body := e.Body
		if len(body) > maxErrorBody {
			body = strings.ToValidUTF8(body[:maxErrorBody], "") + "..."
		}
		return fmt.Sprintf("provider %q returned HTTP status %s: %s", e.Provider, status, body)
	}
	return fmt.Sprintf("provider %q returned HTTP status %s", e.Provider, status)
}

// Unwrap returns the underlying error for error chain support.
func (e *HTTPStatusError) Unwrap() error {
	return e.Cause
}

// MalformedResponseError represents a 2xx response whose body does not have
// the expected shape.
type MalformedResponseError struct {
	// Provider is the name of the provider that returned the malformed response
	Provider string

	// RawResponse is the raw response body that failed to parse
	RawResponse string

	// Cause describes what was wrong with the response
	Cause error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("provider %q malformed response: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// ConfigError represents a provider configuration error found before a
// request is sent.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}

// ErrorKind classifies err into one of the Kind* constants.
// It is used as a low-cardinality label for metrics and logs.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *HTTPStatusError
	var malformedErr *MalformedResponseError
	var transportErr *TransportError
	var configErr *ConfigError

	switch {
	case errors.As(err, &configErr):
		return KindConfig
	case errors.As(err, &statusErr):
		return KindHTTPStatus
	case errors.As(err, &malformedErr):
		return KindMalformedResponse
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindUnknown
	}
}

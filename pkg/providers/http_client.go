package providers

import (
	"net/http"
	"sync"
	"time"
)

// Default connection pool settings.
const (
	DefaultTimeout             = 2 * time.Minute
	DefaultMaxIdleConns        = 100
	DefaultMaxIdleConnsPerHost = 10
	DefaultIdleConnTimeout     = 90 * time.Second
)

var (
	sharedClient     *http.Client
	sharedClientOnce sync.Once
)

// NewHTTPClient creates an HTTP client with connection pooling.
//
// The returned client is safe for concurrent use and is meant to be shared by
// every conversation in the process. Callers own its lifetime; conversations
// only borrow it.
func NewHTTPClient(config HTTPClientConfig) *http.Client {
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = DefaultMaxIdleConns
	}
	if config.MaxIdleConnsPerHost <= 0 {
		config.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if config.IdleConnTimeout <= 0 {
		config.IdleConnTimeout = DefaultIdleConnTimeout
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		DisableCompression:  false,
		// Enable HTTP/2
		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}
}

// DefaultHTTPClient returns the process-wide pooled client built with the
// default settings. It is created on first use.
func DefaultHTTPClient() *http.Client {
	sharedClientOnce.Do(func() {
		sharedClient = NewHTTPClient(HTTPClientConfig{Timeout: DefaultTimeout})
	})
	return sharedClient
}

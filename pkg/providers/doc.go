// Package providers holds the provider-agnostic pieces shared by the
// conversation client: the Message type, the error taxonomy, and the pooled
// HTTP client handle.
//
// # Errors
//
// A completion call can fail in three ways, each with its own type:
//
//   - TransportError - no response was obtained (connection, DNS, timeout)
//   - HTTPStatusError - the provider answered with a non-2xx status
//   - MalformedResponseError - a 2xx body did not have the expected shape
//
// None of them are retried. ErrorKind maps an error to a short label that is
// used for metrics and log fields:
//
//	if _, err := client.Completion(ctx); err != nil {
//	    var statusErr *providers.HTTPStatusError
//	    if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
//	        // back off and try again later
//	    }
//	}
//
// # HTTP Client
//
// NewHTTPClient builds a *http.Client with a pooled transport. One client is
// intended to be shared by many conversations:
//
//	httpClient := providers.NewHTTPClient(providers.HTTPClientConfig{
//	    Timeout: 60 * time.Second,
//	})
//	a := conversation.New(key, httpClient)
//	b := conversation.New(key, httpClient)
package providers

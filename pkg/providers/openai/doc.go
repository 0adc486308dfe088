// Package openai implements the OpenAI chat completions wire format.
//
// # Request Transformation
//
// BuildRequest turns a model name and a provider-agnostic message list into
// the request body:
//
//	{"model": "gpt-4o-mini", "messages": [{"role": "user", "content": "Hello!"}]}
//
// An empty message list is encoded as an empty array, never null.
//
// # Response Transformation
//
// ExtractContent pulls choices[0].message.content out of a 2xx response body.
// Any deviation from that shape (invalid JSON, missing or empty choices,
// non-string content) is returned as a *providers.MalformedResponseError that
// carries the raw body.
package openai

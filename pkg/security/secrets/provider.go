package secrets

import (
	"context"
	"errors"
)

// ErrSecretNotFound is returned when a provider has no value for a secret.
var ErrSecretNotFound = errors.New("secret not found")

// Provider retrieves secrets from a backend.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// GetSecret retrieves a secret by name.
	// Returns an error wrapping ErrSecretNotFound if the secret is absent.
	GetSecret(ctx context.Context, name string) (string, error)

	// Name returns the provider name (env, file).
	Name() string
}

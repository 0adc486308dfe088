package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Chain tries multiple providers in priority order.
//
// The first provider that returns a value wins. A provider that reports
// ErrSecretNotFound is skipped; any other error stops the lookup, so a
// misconfigured secret file is reported instead of silently falling
// back to the environment.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain creates a chain over providers. Nil providers are ignored.
func NewChain(providers ...Provider) *Chain {
	c := &Chain{logger: slog.Default().With("component", "secrets")}
	for _, p := range providers {
		if p != nil {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// GetSecret retrieves a secret from the first provider that has it.
func (c *Chain) GetSecret(ctx context.Context, name string) (string, error) {
	value, _, err := c.Resolve(ctx, name)
	return value, err
}

// Name returns the provider name.
func (c *Chain) Name() string {
	return "chain"
}

// Resolve retrieves a secret and also reports which provider supplied it.
func (c *Chain) Resolve(ctx context.Context, name string) (value, source string, err error) {
	for _, provider := range c.providers {
		value, err := provider.GetSecret(ctx, name)
		if err == nil {
			c.logger.Debug("secret retrieved",
				"provider", provider.Name(),
				"name", redactSecretName(name),
			)
			return value, provider.Name(), nil
		}

		if !errors.Is(err, ErrSecretNotFound) {
			return "", provider.Name(), fmt.Errorf("failed to get secret %q from %s: %w", name, provider.Name(), err)
		}

		c.logger.Debug("secret not in provider",
			"provider", provider.Name(),
			"name", redactSecretName(name),
		)
	}

	return "", "", fmt.Errorf("%w: %q (tried %d providers)", ErrSecretNotFound, name, len(c.providers))
}

// Close closes every provider that holds resources.
func (c *Chain) Close() error {
	var errs []error
	for _, provider := range c.providers {
		if closer, ok := provider.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// redactSecretName returns a redacted version of the secret name for logging.
func redactSecretName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}

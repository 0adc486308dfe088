package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvProvider loads secrets from environment variables.
//
// Secret names are converted to uppercase environment variable names
// with hyphens replaced by underscores. An optional prefix can be
// configured to namespace secrets.
//
// Example:
//   - Secret name: "openai-api-key"
//   - Env var name: "OPENAI_API_KEY" (no prefix)
type EnvProvider struct {
	Prefix string // Optional prefix for environment variables

	lookup func(string) (string, bool)
}

// NewEnvProvider creates a new environment variable secret provider.
func NewEnvProvider(prefix string) *EnvProvider {
	return &EnvProvider{
		Prefix: prefix,
		lookup: os.LookupEnv,
	}
}

// GetSecret retrieves a secret from an environment variable.
// Surrounding whitespace is trimmed; a blank variable counts as unset.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	envVar := p.EnvVar(name)

	value, _ := p.lookup(envVar)
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w in environment: %s", ErrSecretNotFound, envVar)
	}

	return value, nil
}

// Name returns the provider name.
func (p *EnvProvider) Name() string {
	return "env"
}

// EnvVar returns the environment variable name that holds the secret.
//
// Example: "openai-api-key" -> "OPENAI_API_KEY"
func (p *EnvProvider) EnvVar(name string) string {
	return p.Prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

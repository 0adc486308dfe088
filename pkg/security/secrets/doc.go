/*
Package secrets loads the API credential used by the conversation client.

# Overview

A Provider returns a named secret or ErrSecretNotFound. Two providers ship
with the package and are combined by a Chain in priority order:

  - FileProvider: reads one secret from a file (Kubernetes-style mounts,
    password manager exports). Permissions must be 0600 or 0400.
  - EnvProvider: reads an environment variable, optionally prefixed.

The first provider that has the secret wins. A provider that fails for any
other reason (unreadable file, insecure permissions) stops the lookup so a
broken file is never silently replaced by a stale environment variable.

# Basic Usage

	file, err := secrets.NewFileProvider("/run/secrets/openai.key", true)
	if err != nil {
		return err
	}

	chain := secrets.NewChain(file, secrets.NewEnvProvider(""))
	defer chain.Close()

	key, source, err := chain.Resolve(ctx, "OPENAI_API_KEY")
	if err != nil {
		return err
	}
	logger.Debug("credential loaded", "source", source)

# Rotation

With watching enabled, FileProvider clears its cached value whenever the
file is written, replaced or removed. Callers that resolve the credential
before every request pick up a rotated key without restarting.

# Logging

Secret values are never logged. Secret names are shortened by
redactSecretName before they appear in log fields.
*/
package secrets

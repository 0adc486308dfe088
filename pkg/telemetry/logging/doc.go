// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - JSON, text and coloured console output
//   - Masking of API keys, bearer tokens and passwords in log fields
//   - Command and session fields taken from the record's context
//   - A runtime-adjustable level (the CLI's --verbose flag)
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//	    return err
//	}
//
//	// Hand the slog logger to library code
//	client.SetLogger(logger.Slog())
//
//	logger.Info("credential loaded", "api_key", key) // api_key=sk-a***
//
//	// command=chat session=... are added to every record logged with ctx
//	ctx = logging.WithSession(logging.WithCommand(ctx, "chat"), client.SessionID())
//	logger.InfoContext(ctx, "session resumed")
//
// # Redaction
//
// Values under sensitive keys (api_key, token, authorization, ...) are
// reduced to a four character prefix. String values anywhere else are
// scanned for sk- keys, bearer tokens and password assignments.
package logging

package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// SessionKey is the context key for session identifiers.
	SessionKey contextKey = "session"

	// CommandKey is the context key for the CLI command being run.
	CommandKey contextKey = "command"
)

// WithSession adds a session identifier to the context.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetSession retrieves the session identifier from the context.
func GetSession(ctx context.Context) string {
	if session, ok := ctx.Value(SessionKey).(string); ok {
		return session
	}
	return ""
}

// WithCommand adds the CLI command name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, CommandKey, command)
}

// GetCommand retrieves the CLI command name from the context.
func GetCommand(ctx context.Context) string {
	if command, ok := ctx.Value(CommandKey).(string); ok {
		return command
	}
	return ""
}

// contextAttrs returns the log fields stored in ctx, command first.
func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}

	var attrs []slog.Attr
	if command := GetCommand(ctx); command != "" {
		attrs = append(attrs, slog.String(string(CommandKey), command))
	}
	if session := GetSession(ctx); session != "" {
		attrs = append(attrs, slog.String(string(SessionKey), session))
	}
	return attrs
}

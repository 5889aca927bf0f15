package logger

import (
	"context"
	"log/slog"
)

type contextKey struct{}

// WithLogger returns a new context carrying the given logger.
// Middleware uses this to attach request-scoped attributes (trace IDs) so
// downstream code logs with consistent correlation fields.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext retrieves the logger from the context.
// Falls back to slog.Default() when the context carries no logger.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return log
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger from the context, or returns the
// provided fallback when the context carries no logger. Components that hold
// their own component-scoped logger use this to prefer request-scoped loggers
// without losing their component attributes.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

package trace

import (
	"context"

	"github.com/charmbracelet/log"
)

type contextKey int

const loggerKey contextKey = iota

// WithLogger returns a new context with the given logger attached.
// Traversals run with this context log through it.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// LoggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func LoggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

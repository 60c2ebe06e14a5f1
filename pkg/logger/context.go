package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// With returns a new context whose logger carries the given fields.
func With(ctx context.Context, fields ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(fields...))
}

// Bound returns the logger stored in ctx, if any.
func Bound(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	return l, ok
}

// From returns the logger stored in ctx, falling back to the process logger.
func From(ctx context.Context) *slog.Logger {
	if l, ok := Bound(ctx); ok {
		return l
	}
	return LoggerWrapper()
}

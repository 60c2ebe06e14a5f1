package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextSupervisorKey ctxKey = "supervisorID"

// SupervisorIDFromContext returns the id of the authenticated supervisor, or "".
func SupervisorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(ContextSupervisorKey).(string); ok {
		return id
	}
	return ""
}

func ContextWithSupervisorID(ctx context.Context, supervisorID string) context.Context {
	return context.WithValue(ctx, ContextSupervisorKey, supervisorID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

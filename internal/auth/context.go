package auth

import (
	"context"

	"github.com/frahmantamala/hours-portal/internal/supervisor"
)

type ctxKey struct{}

func ContextWithSupervisor(ctx context.Context, sup *supervisor.Supervisor) context.Context {
	return context.WithValue(ctx, ctxKey{}, sup)
}

// SupervisorFromContext returns the supervisor the auth middleware resolved.
func SupervisorFromContext(ctx context.Context) (*supervisor.Supervisor, bool) {
	sup, ok := ctx.Value(ctxKey{}).(*supervisor.Supervisor)
	return sup, ok && sup != nil
}

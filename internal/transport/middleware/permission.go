package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/access"
	"github.com/frahmantamala/hours-portal/internal/auth"
	"github.com/frahmantamala/hours-portal/internal/transport"
)

// RequireAdmin must run after the auth middleware. It rejects supervisors
// without the admin flag before the request reaches an admin handler.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sup, ok := auth.SupervisorFromContext(r.Context())
			if !ok || sup == nil {
				base.HandleServiceError(w, internal.ErrNotLoggedIn)
				return
			}

			if err := access.RequireAdmin(*sup); err != nil {
				logger.Warn("access denied: admin required",
					"supervisor_id", sup.ID,
					"path", r.URL.Path)
				base.HandleServiceError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

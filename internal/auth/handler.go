package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
	"github.com/frahmantamala/hours-portal/internal/transport"
	"github.com/frahmantamala/hours-portal/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error)
	Logout(ctx context.Context, actorID string) error
	Authenticate(tokenString string) (*supervisor.Supervisor, error)
	Me(ctx context.Context, actorID string) (*MeResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), internal.SupervisorIDFromContext(r.Context())); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.Me(r.Context(), internal.SupervisorIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

// AuthMiddleware admits requests whose bearer token belongs to the current
// session and binds the supervisor to the request context and logger.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		sup, err := h.Service.Authenticate(token)
		if err != nil {
			h.Logger.Warn("auth middleware: rejected token", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithSupervisorID(r.Context(), sup.ID)
		ctx = ContextWithSupervisor(ctx, sup)
		ctx = logger.With(ctx, "supervisor_id", sup.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

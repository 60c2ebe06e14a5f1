package supervisor

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/transport"
)

type ServiceAPI interface {
	ListSupervisors(ctx context.Context, actorID string) ([]Supervisor, error)
	UpsertSupervisor(ctx context.Context, actorID string, dto UpsertSupervisorDTO) (*Supervisor, error)
	DeleteSupervisor(ctx context.Context, actorID, supervisorID string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetSupervisors(w http.ResponseWriter, r *http.Request) {
	supervisors, err := h.Service.ListSupervisors(r.Context(), internal.SupervisorIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SupervisorsResponse{Supervisors: supervisors})
}

func (h *Handler) CreateSupervisor(w http.ResponseWriter, r *http.Request) {
	var dto UpsertSupervisorDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = ""

	sup, err := h.Service.UpsertSupervisor(r.Context(), internal.SupervisorIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, sup)
}

func (h *Handler) UpdateSupervisor(w http.ResponseWriter, r *http.Request) {
	var dto UpsertSupervisorDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = chi.URLParam(r, "id")

	sup, err := h.Service.UpsertSupervisor(r.Context(), internal.SupervisorIDFromContext(r.Context()), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sup)
}

func (h *Handler) DeleteSupervisor(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteSupervisor(r.Context(), internal.SupervisorIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

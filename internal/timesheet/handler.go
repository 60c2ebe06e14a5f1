package timesheet

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/transport"
)

type ServiceAPI interface {
	WeekView(ctx context.Context, actorID, week string) (*WeekView, error)
	UpsertTimeSheetEntry(ctx context.Context, actorID, week string, dto UpsertEntryDTO) (*WeekRow, error)
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

// GetWeek serves both /timesheets (default week) and /timesheets/{week}.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.WeekView(r.Context(), internal.SupervisorIDFromContext(r.Context()), chi.URLParam(r, "week"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) PutEntry(w http.ResponseWriter, r *http.Request) {
	var dto UpsertEntryDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.Service.UpsertTimeSheetEntry(r.Context(), internal.SupervisorIDFromContext(r.Context()), chi.URLParam(r, "week"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, row)
}

package submission

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
	"github.com/frahmantamala/hours-portal/internal/transport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ServiceAPI interface {
	Submit(ctx context.Context, actorID, week string) (*Outcome, error)
	Export(ctx context.Context, actorID, week string) ([]byte, error)
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

func (h *Handler) PostSubmit(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.Service.Submit(r.Context(), internal.SupervisorIDFromContext(r.Context()), chi.URLParam(r, "week"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, outcome)
}

func (h *Handler) GetExport(w http.ResponseWriter, r *http.Request) {
	week := chi.URLParam(r, "week")
	data, err := h.Service.Export(r.Context(), internal.SupervisorIDFromContext(r.Context()), week)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if key, err := timesheet.NormalizeWeek(week); err == nil {
		week = key
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="hours-%s.xlsx"`, week))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Warn("failed to write export", "error", err)
	}
}

package settings

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/transport"
)

type ServiceAPI interface {
	EndpointURL(ctx context.Context, actorID string) (string, error)
	SetEndpointURL(ctx context.Context, actorID, url string) (string, error)
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

func (h *Handler) GetEndpoint(w http.ResponseWriter, r *http.Request) {
	url, err := h.Service.EndpointURL(r.Context(), internal.SupervisorIDFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, newEndpointResponse(url))
}

func (h *Handler) PutEndpoint(w http.ResponseWriter, r *http.Request) {
	var dto EndpointDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	actorID := internal.SupervisorIDFromContext(r.Context())
	url, err := h.Service.SetEndpointURL(r.Context(), actorID, dto.URL)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("PutEndpoint: endpoint saved", "supervisor_id", actorID, "enabled", url != "")
	h.WriteJSON(w, http.StatusOK, newEndpointResponse(url))
}

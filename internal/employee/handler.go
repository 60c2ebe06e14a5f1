package employee

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/transport"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context, actorID string) ([]Employee, error)
	UpsertEmployee(ctx context.Context, actorID string, dto UpsertEmployeeDTO) (*Employee, error)
	DeleteEmployee(ctx context.Context, actorID, employeeID string) error
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

func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	actorID := internal.SupervisorIDFromContext(r.Context())

	employees, err := h.Service.ListEmployees(r.Context(), actorID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EmployeesResponse{Employees: employees})
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	actorID := internal.SupervisorIDFromContext(r.Context())

	var dto UpsertEmployeeDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = ""

	emp, err := h.Service.UpsertEmployee(r.Context(), actorID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEmployee: employee created", "employee_id", emp.ID, "supervisor_id", actorID)
	h.WriteJSON(w, http.StatusCreated, emp)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	actorID := internal.SupervisorIDFromContext(r.Context())

	var dto UpsertEmployeeDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ID = chi.URLParam(r, "id")

	emp, err := h.Service.UpsertEmployee(r.Context(), actorID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	actorID := internal.SupervisorIDFromContext(r.Context())
	employeeID := chi.URLParam(r, "id")

	if err := h.Service.DeleteEmployee(r.Context(), actorID, employeeID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("DeleteEmployee: employee removed", "employee_id", employeeID, "supervisor_id", actorID)
	w.WriteHeader(http.StatusNoContent)
}

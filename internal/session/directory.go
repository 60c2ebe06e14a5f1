package session

import (
	"context"
	"strings"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/access"
	"github.com/frahmantamala/hours-portal/internal/core/common/validation"
	"github.com/frahmantamala/hours-portal/internal/department"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
)

func (c *Controller) ListEmployees(_ context.Context, actorID string) ([]employee.Employee, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sup, err := c.actorLocked(actorID)
	if err != nil {
		return nil, err
	}
	return access.VisibleEmployees(c.state.Employees, sup), nil
}

// UpsertEmployee creates an employee when dto.ID is empty, otherwise edits
// it in place. Both the old and the new department must be visible to the actor.
func (c *Controller) UpsertEmployee(ctx context.Context, actorID string, dto employee.UpsertEmployeeDTO) (*employee.Employee, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sup, err := c.actorLocked(actorID)
	if err != nil {
		return nil, err
	}

	id := dto.ID
	idx := -1
	if id != "" {
		idx = employee.IndexOf(c.state.Employees, id)
		if idx < 0 || !access.CanAccessEmployee(sup, c.state.Employees[idx]) {
			return nil, internal.ErrEmployeeNotFound
		}
	} else {
		id = employee.NewID()
	}

	emp, err := dto.ToEmployee(id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireDepartment(sup, emp.Department); err != nil {
		c.logger.Warn("employee department not assigned to supervisor",
			"supervisor_id", sup.ID,
			"department", emp.Department)
		return nil, err
	}

	next := c.state.Clone()
	if idx >= 0 {
		next.Employees[idx] = emp
	} else {
		next.Employees = append(next.Employees, emp)
	}
	if err := c.commit(ctx, next); err != nil {
		return nil, err
	}

	c.logger.Info("employee saved", "employee_id", emp.ID, "supervisor_id", sup.ID, "created", idx < 0)
	return &emp, nil
}

// DeleteEmployee removes the employee. Their time sheets stay in storage
// but no longer appear anywhere, since every view starts from the roster.
func (c *Controller) DeleteEmployee(ctx context.Context, actorID, employeeID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sup, err := c.actorLocked(actorID)
	if err != nil {
		return err
	}
	idx := employee.IndexOf(c.state.Employees, employeeID)
	if idx < 0 || !access.CanAccessEmployee(sup, c.state.Employees[idx]) {
		return internal.ErrEmployeeNotFound
	}

	next := c.state.Clone()
	next.Employees = append(next.Employees[:idx], next.Employees[idx+1:]...)
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	c.logger.Info("employee deleted", "employee_id", employeeID, "supervisor_id", sup.ID)
	return nil
}

func (c *Controller) VisibleDepartments(_ context.Context, actorID string) ([]department.Department, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sup, err := c.actorLocked(actorID)
	if err != nil {
		return nil, err
	}
	return access.VisibleDepartments(sup), nil
}

func (c *Controller) adminLocked(actorID string) (supervisor.Supervisor, error) {
	sup, err := c.actorLocked(actorID)
	if err != nil {
		return supervisor.Supervisor{}, err
	}
	if err := access.RequireAdmin(sup); err != nil {
		c.logger.Warn("admin access denied", "supervisor_id", sup.ID)
		return supervisor.Supervisor{}, err
	}
	return sup, nil
}

func (c *Controller) ListSupervisors(_ context.Context, actorID string) ([]supervisor.Supervisor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, err := c.adminLocked(actorID); err != nil {
		return nil, err
	}
	return c.state.Clone().Supervisors, nil
}

// UpsertSupervisor is admin-only. Emails stay unique ignoring case. Edits
// last until the next load, which restores the allow-list.
func (c *Controller) UpsertSupervisor(ctx context.Context, actorID string, dto supervisor.UpsertSupervisorDTO) (*supervisor.Supervisor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	actor, err := c.adminLocked(actorID)
	if err != nil {
		return nil, err
	}

	id := dto.ID
	idx := -1
	if id != "" {
		if idx = supervisor.IndexOf(c.state.Supervisors, id); idx < 0 {
			return nil, internal.ErrSupervisorNotFound
		}
	} else {
		id = supervisor.NewID()
	}

	sup, err := dto.ToSupervisor(id)
	if err != nil {
		return nil, err
	}
	if supervisor.EmailTaken(c.state.Supervisors, sup.Email, sup.ID) {
		return nil, internal.ErrDuplicateEmail
	}

	next := c.state.Clone()
	if idx >= 0 {
		next.Supervisors[idx] = sup
	} else {
		next.Supervisors = append(next.Supervisors, sup)
	}
	if next.CurrentUser != nil && next.CurrentUser.ID == sup.ID {
		cur := sup.Clone()
		next.CurrentUser = &cur
	}
	if err := c.commit(ctx, next); err != nil {
		return nil, err
	}

	c.logger.Info("supervisor saved", "supervisor_id", sup.ID, "actor_id", actor.ID, "created", idx < 0)
	out := sup.Clone()
	return &out, nil
}

func (c *Controller) DeleteSupervisor(ctx context.Context, actorID, supervisorID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	actor, err := c.adminLocked(actorID)
	if err != nil {
		return err
	}
	if supervisorID == actor.ID {
		return internal.ErrCannotDeleteSelf
	}
	idx := supervisor.IndexOf(c.state.Supervisors, supervisorID)
	if idx < 0 {
		return internal.ErrSupervisorNotFound
	}

	next := c.state.Clone()
	next.Supervisors = append(next.Supervisors[:idx], next.Supervisors[idx+1:]...)
	if err := c.commit(ctx, next); err != nil {
		return err
	}
	c.logger.Info("supervisor deleted", "supervisor_id", supervisorID, "actor_id", actor.ID)
	return nil
}

func (c *Controller) EndpointURL(_ context.Context, actorID string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, err := c.adminLocked(actorID); err != nil {
		return "", err
	}
	return c.state.ExternalEndpointURL, nil
}

// SetEndpointURL stores the spreadsheet endpoint. An empty value disables posting.
func (c *Controller) SetEndpointURL(ctx context.Context, actorID, url string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.adminLocked(actorID); err != nil {
		return "", err
	}
	url = strings.TrimSpace(url)
	if err := validation.Var("url", url, "omitempty,http_url"); err != nil {
		return "", internal.NewValidationFieldError("url", "url must be a valid http(s) URL", internal.ErrCodeInvalidEndpoint)
	}

	next := c.state.Clone()
	next.ExternalEndpointURL = url
	if err := c.commit(ctx, next); err != nil {
		return "", err
	}
	c.logger.Info("spreadsheet endpoint updated", "actor_id", actorID)
	return url, nil
}

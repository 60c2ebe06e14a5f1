package session

import (
	"context"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/access"
	"github.com/frahmantamala/hours-portal/internal/core/events"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/submission"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
)

// resolveWeek maps "" to the previous week and any date to its Monday.
func (c *Controller) resolveWeek(week string) (string, error) {
	if week == "" {
		return timesheet.PreviousWeek(c.now()), nil
	}
	return timesheet.NormalizeWeek(week)
}

func (c *Controller) WeekView(_ context.Context, actorID, week string) (*timesheet.WeekView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sup, err := c.actorLocked(actorID)
	if err != nil {
		return nil, err
	}
	key, err := c.resolveWeek(week)
	if err != nil {
		return nil, err
	}
	return timesheet.BuildWeekView(key, access.VisibleEmployees(c.state.Employees, sup), c.state.Store())
}

// UpsertTimeSheetEntry sets one day's hours for an employee the actor can see.
func (c *Controller) UpsertTimeSheetEntry(ctx context.Context, actorID, week string, dto timesheet.UpsertEntryDTO) (*timesheet.WeekRow, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	sup, err := c.actorLocked(actorID)
	if err != nil {
		return nil, err
	}
	key, err := c.resolveWeek(week)
	if err != nil {
		return nil, err
	}
	idx := employee.IndexOf(c.state.Employees, dto.EmployeeID)
	if idx < 0 || !access.CanAccessEmployee(sup, c.state.Employees[idx]) {
		return nil, internal.ErrEmployeeNotFound
	}
	emp := c.state.Employees[idx]

	store, err := c.state.Store().UpsertHours(emp.ID, key, dto.Date, dto.HoursValue())
	if err != nil {
		return nil, err
	}
	next := c.state.Clone()
	next.TimeSheets = store.Sheets()
	if err := c.commit(ctx, next); err != nil {
		return nil, err
	}

	c.publish(ctx, events.NewTimeSheetUpdatedEvent(sup.ID, emp.ID, key, dto.Date, dto.HoursValue()))
	row := timesheet.BuildRow(key, emp, store)
	return &row, nil
}

func (c *Controller) snapshotRequest(actorID, week string) (submission.Request, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sup, err := c.actorLocked(actorID)
	if err != nil {
		return submission.Request{}, err
	}
	key, err := c.resolveWeek(week)
	if err != nil {
		return submission.Request{}, err
	}
	snap := c.state.Clone()
	return submission.Request{
		Week:       key,
		Supervisor: sup,
		Employees:  snap.Employees,
		Store:      snap.Store(),
		Endpoint:   snap.ExternalEndpointURL,
	}, nil
}

// Submit runs the pipeline on a snapshot without holding the state lock,
// so edits stay possible while the collaborators work. Only one submission
// runs at a time. When the sink accepted the records, the submitted sheets
// are flagged; editing hours later does not clear the flag.
func (c *Controller) Submit(ctx context.Context, actorID, week string) (*submission.Outcome, error) {
	if !c.submitting.CompareAndSwap(false, true) {
		return nil, internal.ErrSubmissionInProgress
	}
	defer c.submitting.Store(false)

	req, err := c.snapshotRequest(actorID, week)
	if err != nil {
		return nil, err
	}

	out, err := c.submitter.Submit(ctx, req)
	if err != nil {
		return nil, err
	}
	if !out.SinkOK {
		return out, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.state.Clone()
	next.TimeSheets = next.Store().MarkSubmitted(out.WeekStartDate, out.SubmittedEmployeeIDs).Sheets()
	if err := c.commit(ctx, next); err != nil {
		c.logger.Warn("could not flag submitted time sheets", "week", out.WeekStartDate, "error", err)
	}
	return out, nil
}

// Submitting reports whether a submission is currently running.
func (c *Controller) Submitting() bool {
	return c.submitting.Load()
}

func (c *Controller) Export(_ context.Context, actorID, week string) ([]byte, error) {
	req, err := c.snapshotRequest(actorID, week)
	if err != nil {
		return nil, err
	}
	return c.submitter.Export(req)
}

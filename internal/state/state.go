package state

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
)

// StorageKey is the single key the whole application state lives under.
const StorageKey = "finantx_app_v1"

// AppState is the persisted document. CurrentUser is the supervisor of the
// one active session, or nil when nobody is logged in.
type AppState struct {
	Employees           []employee.Employee         `json:"employees"`
	Supervisors         []supervisor.Supervisor     `json:"supervisors"`
	TimeSheets          []timesheet.WeeklyTimeSheet `json:"time_sheets"`
	CurrentUser         *supervisor.Supervisor      `json:"current_user"`
	ExternalEndpointURL string                      `json:"external_endpoint_url"`
}

// Default is the state of a fresh installation.
func Default(endpointURL string) AppState {
	return AppState{
		Employees:           employee.Initial(),
		Supervisors:         supervisor.AllowList(),
		TimeSheets:          []timesheet.WeeklyTimeSheet{},
		CurrentUser:         nil,
		ExternalEndpointURL: endpointURL,
	}
}

// Validate checks a document read back from storage. The supervisor list
// and current user are not checked since Load replaces them.
func (s AppState) Validate() error {
	if s.Employees == nil {
		return errors.New("employee roster is missing")
	}
	ids := make(map[string]struct{}, len(s.Employees))
	for _, e := range s.Employees {
		if e.ID == "" {
			return errors.New("employee without id")
		}
		if _, dup := ids[e.ID]; dup {
			return fmt.Errorf("employee %s: duplicate id", e.ID)
		}
		ids[e.ID] = struct{}{}
		if !e.Department.Valid() {
			return fmt.Errorf("employee %s: unknown department %q", e.ID, e.Department)
		}
		if e.Rate < 0 {
			return fmt.Errorf("employee %s: negative rate", e.ID)
		}
	}
	return timesheet.ValidateSheets(s.TimeSheets)
}

// Clone deep-copies every slice, map and pointer.
func (s AppState) Clone() AppState {
	cp := s
	cp.Employees = append([]employee.Employee(nil), s.Employees...)
	cp.Supervisors = make([]supervisor.Supervisor, len(s.Supervisors))
	for i, sup := range s.Supervisors {
		cp.Supervisors[i] = sup.Clone()
	}
	cp.TimeSheets = timesheet.NewStore(s.TimeSheets).Sheets()
	if s.CurrentUser != nil {
		u := s.CurrentUser.Clone()
		cp.CurrentUser = &u
	}
	return cp
}

// Store wraps the persisted sheets as an immutable time sheet store.
func (s AppState) Store() timesheet.Store {
	return timesheet.NewStore(s.TimeSheets)
}

package submission

import (
	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/access"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
)

const DefaultCompanyLabel = "Card Shield"

// Batch is everything one submission hands to the collaborators.
type Batch struct {
	WeekStartDate string
	WeekLabel     string
	Supervisor    supervisor.Supervisor
	Employees     []employee.Employee
	Records       []Record
	Summary       Summary
}

type Formatter struct {
	CompanyLabel string
}

func NewFormatter(companyLabel string) Formatter {
	if companyLabel == "" {
		companyLabel = DefaultCompanyLabel
	}
	return Formatter{CompanyLabel: companyLabel}
}

// Format builds the records and summary for week. Only employees sup can
// see are considered; employees with a zero weekly total produce no record
// but still count in the summary. An empty record list is ErrNothingToSubmit.
func (f Formatter) Format(week string, sup supervisor.Supervisor, employees []employee.Employee, store timesheet.Store) (*Batch, error) {
	key, err := timesheet.NormalizeWeek(week)
	if err != nil {
		return nil, err
	}
	days, err := timesheet.WeekDays(key)
	if err != nil {
		return nil, err
	}

	visible := access.VisibleEmployees(employees, sup)
	batch := &Batch{
		WeekStartDate: key,
		WeekLabel:     timesheet.WeekLabel(key),
		Supervisor:    sup.Clone(),
		Employees:     visible,
		Summary:       Summarize(key, visible, store),
	}

	for _, emp := range visible {
		total := store.WeeklyTotal(emp.ID, key)
		if total <= 0 {
			continue
		}

		rec := Record{
			EmployeeID:          emp.ID,
			PrimaryCompany:      f.CompanyLabel,
			Department:          emp.Department,
			EmployeeFirstName:   emp.FirstName,
			EmployeeLastName:    emp.LastName,
			SupervisorFirstName: sup.FirstName,
			SupervisorLastName:  sup.LastName,
			TotalHours:          total,
			Rate:                emp.Rate,
			Days:                make([]DayValue, 0, len(days)),
		}
		for _, d := range days {
			hours, _ := store.GetEntry(emp.ID, key, timesheet.DateKey(d))
			rec.Days = append(rec.Days, DayValue{
				Weekday: d.Weekday().String(),
				Date:    timesheet.FormatShort(d),
				Hours:   hours,
			})
		}
		batch.Records = append(batch.Records, rec)
	}

	if len(batch.Records) == 0 {
		return nil, internal.ErrNothingToSubmit
	}
	return batch, nil
}

// EmployeeIDs lists the employees that produced a record.
func (b *Batch) EmployeeIDs() []string {
	out := make([]string, len(b.Records))
	for i, r := range b.Records {
		out[i] = r.EmployeeID
	}
	return out
}

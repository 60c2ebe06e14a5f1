package timesheet

import (
	"github.com/frahmantamala/hours-portal/internal/employee"
)

type DayColumn struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Label   string `json:"label"`
}

// WeekRow is one employee's line in the weekly grid. Hours only carries
// dates that were actually entered.
type WeekRow struct {
	Employee  employee.Employee  `json:"employee"`
	Hours     map[string]float64 `json:"hours"`
	Total     float64            `json:"total"`
	Submitted bool               `json:"submitted"`
}

type WeekView struct {
	WeekStartDate string      `json:"week_start_date"`
	WeekLabel     string      `json:"week_label"`
	Days          []DayColumn `json:"days"`
	Rows          []WeekRow   `json:"rows"`
	GrandTotal    float64     `json:"grand_total"`
}

// BuildWeekView lays out the grid for employees (already filtered by the caller).
func BuildWeekView(week string, employees []employee.Employee, store Store) (*WeekView, error) {
	key, err := NormalizeWeek(week)
	if err != nil {
		return nil, err
	}
	days, err := WeekDays(key)
	if err != nil {
		return nil, err
	}

	view := &WeekView{
		WeekStartDate: key,
		WeekLabel:     WeekLabel(key),
		Days:          make([]DayColumn, len(days)),
		Rows:          make([]WeekRow, 0, len(employees)),
	}
	for i, d := range days {
		view.Days[i] = DayColumn{Date: DateKey(d), Weekday: d.Weekday().String(), Label: FormatShort(d)}
	}

	for _, emp := range employees {
		view.Rows = append(view.Rows, BuildRow(key, emp, store))
		view.GrandTotal += view.Rows[len(view.Rows)-1].Total
	}
	return view, nil
}

func BuildRow(week string, emp employee.Employee, store Store) WeekRow {
	row := WeekRow{Employee: emp, Hours: map[string]float64{}}
	if sheet, ok := store.Find(emp.ID, week); ok {
		row.Hours = sheet.Entries
		row.Total = sheet.Total()
		row.Submitted = sheet.Submitted
	}
	return row
}

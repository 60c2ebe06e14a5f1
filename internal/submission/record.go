package submission

import (
	"bytes"
	"encoding/json"

	"github.com/frahmantamala/hours-portal/internal/department"
)

// DayValue is one tracked day of a submission row.
type DayValue struct {
	Weekday string
	Date    string
	Hours   float64
}

// Record is one flattened spreadsheet row. It serialises to the fixed key
// set the spreadsheet script reads, in column order.
type Record struct {
	EmployeeID          string
	PrimaryCompany      string
	Department          department.Department
	EmployeeFirstName   string
	EmployeeLastName    string
	SupervisorFirstName string
	SupervisorLastName  string
	TotalHours          float64
	Rate                float64
	Days                []DayValue
}

type field struct {
	key   string
	value interface{}
}

func (r Record) fields() []field {
	out := []field{
		{"Primary company", r.PrimaryCompany},
		{"Department", string(r.Department)},
		{"Employee first name", r.EmployeeFirstName},
		{"Employee last name", r.EmployeeLastName},
		{"Supervisor first name", r.SupervisorFirstName},
		{"Supervisor last name", r.SupervisorLastName},
		{"Total hours", r.TotalHours},
		{"Rate", r.Rate},
	}
	for _, d := range r.Days {
		out = append(out,
			field{d.Weekday + " Date", d.Date},
			field{d.Weekday + " Hours", d.Hours},
		)
	}
	return out
}

// Columns returns the row's keys in serialisation order.
func (r Record) Columns() []string {
	fs := r.fields()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.key
	}
	return out
}

// Values returns the row's values aligned with Columns.
func (r Record) Values() []interface{} {
	fs := r.fields()
	out := make([]interface{}, len(fs))
	for i, f := range fs {
		out[i] = f.value
	}
	return out
}

// MarshalJSON keeps key order stable; encoding a map would sort the keys.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

package department

import (
	"strings"

	"github.com/frahmantamala/hours-portal/internal"
)

// Department is a closed enumeration used for access scoping and for
// routing spreadsheet rows to a per-department sheet.
type Department string

const (
	Sales          Department = "Sales"
	Operations     Department = "Operations"
	Affiliate      Department = "Affiliate Contractors"
	SIBTPWRAdmin   Department = "SIBT-PWR Admin"
	Correspondence Department = "Correspondence"
)

var all = []Department{Sales, Operations, Affiliate, SIBTPWRAdmin, Correspondence}

// All returns every department in display order.
func All() []Department {
	out := make([]Department, len(all))
	copy(out, all)
	return out
}

func (d Department) String() string {
	return string(d)
}

func (d Department) Valid() bool {
	for _, known := range all {
		if d == known {
			return true
		}
	}
	return false
}

// Parse resolves a department name case-insensitively.
func Parse(name string) (Department, error) {
	name = strings.TrimSpace(name)
	for _, known := range all {
		if strings.EqualFold(name, string(known)) {
			return known, nil
		}
	}
	return "", internal.NewValidationFieldError("department", "unknown department: "+name, internal.ErrCodeInvalidDepartment)
}

// ParseList parses names in order and drops duplicates.
func ParseList(names []string) ([]Department, error) {
	out := make([]Department, 0, len(names))
	for _, name := range names {
		d, err := Parse(name)
		if err != nil {
			return nil, err
		}
		if !Contains(out, d) {
			out = append(out, d)
		}
	}
	return out, nil
}

func Contains(list []Department, d Department) bool {
	for _, item := range list {
		if item == d {
			return true
		}
	}
	return false
}

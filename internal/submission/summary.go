package submission

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/hours-portal/internal/department"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/timesheet"
)

type MemberTotal struct {
	EmployeeID string  `json:"employee_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Total      float64 `json:"total"`
}

type Group struct {
	Department department.Department `json:"department"`
	Members    []MemberTotal         `json:"members"`
	Subtotal   float64               `json:"subtotal"`
}

type Summary struct {
	WeekLabel  string  `json:"week_label"`
	Groups     []Group `json:"groups"`
	GrandTotal float64 `json:"grand_total"`
}

// Summarize groups employees by department in first-seen order. Unlike the
// record list it keeps zero-total employees. Sums are not rounded.
func Summarize(week string, employees []employee.Employee, store timesheet.Store) Summary {
	s := Summary{WeekLabel: timesheet.WeekLabel(week)}
	index := map[department.Department]int{}

	for _, emp := range employees {
		i, ok := index[emp.Department]
		if !ok {
			i = len(s.Groups)
			index[emp.Department] = i
			s.Groups = append(s.Groups, Group{Department: emp.Department})
		}
		total := store.WeeklyTotal(emp.ID, week)
		s.Groups[i].Members = append(s.Groups[i].Members, MemberTotal{
			EmployeeID: emp.ID,
			FirstName:  emp.FirstName,
			LastName:   emp.LastName,
			Total:      total,
		})
		s.Groups[i].Subtotal += total
	}

	for _, g := range s.Groups {
		s.GrandTotal += g.Subtotal
	}
	return s
}

// Text renders the summary for humans, rounding to one decimal place.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Week of %s\n", s.WeekLabel)
	for _, g := range s.Groups {
		fmt.Fprintf(&b, "\n%s\n", g.Department)
		for _, m := range g.Members {
			fmt.Fprintf(&b, "  %s %s: %.1f\n", m.FirstName, m.LastName, m.Total)
		}
		fmt.Fprintf(&b, "  Subtotal: %.1f\n", g.Subtotal)
	}
	fmt.Fprintf(&b, "\nGrand total: %.1f\n", s.GrandTotal)
	return b.String()
}

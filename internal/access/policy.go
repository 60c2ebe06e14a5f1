package access

import (
	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/department"
	"github.com/frahmantamala/hours-portal/internal/employee"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
)

// CanAccessDepartment is the single visibility rule: admins see every
// department, everyone else only the departments assigned to them.
func CanAccessDepartment(sup supervisor.Supervisor, d department.Department) bool {
	return sup.IsAdmin || department.Contains(sup.Departments, d)
}

func CanAccessEmployee(sup supervisor.Supervisor, e employee.Employee) bool {
	return CanAccessDepartment(sup, e.Department)
}

// VisibleEmployees filters employees down to those sup may see, keeping order.
func VisibleEmployees(employees []employee.Employee, sup supervisor.Supervisor) []employee.Employee {
	out := make([]employee.Employee, 0, len(employees))
	for _, e := range employees {
		if CanAccessEmployee(sup, e) {
			out = append(out, e)
		}
	}
	return out
}

// VisibleDepartments applies the same rule over the full department set.
func VisibleDepartments(sup supervisor.Supervisor) []department.Department {
	var out []department.Department
	for _, d := range department.All() {
		if CanAccessDepartment(sup, d) {
			out = append(out, d)
		}
	}
	return out
}

func RequireDepartment(sup supervisor.Supervisor, d department.Department) error {
	if !CanAccessDepartment(sup, d) {
		return internal.ErrDepartmentForbidden
	}
	return nil
}

func RequireAdmin(sup supervisor.Supervisor) error {
	if !sup.IsAdmin {
		return internal.ErrAdminRequired
	}
	return nil
}

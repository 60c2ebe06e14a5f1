package employee

import (
	"strings"

	"github.com/frahmantamala/hours-portal/internal/core/common/validation"
	"github.com/frahmantamala/hours-portal/internal/department"
)

// UpsertEmployeeDTO is the request body for creating or editing an employee.
// ID is ignored on create and taken from the URL on edit.
type UpsertEmployeeDTO struct {
	ID         string  `json:"id,omitempty"`
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	LastName   string  `json:"last_name" validate:"required,max=100"`
	Email      string  `json:"email" validate:"omitempty,email"`
	Rate       float64 `json:"rate" validate:"gte=0"`
	Department string  `json:"department" validate:"required"`
}

func (d UpsertEmployeeDTO) Validate() error {
	d = d.normalized()
	if err := validation.Struct(d); err != nil {
		return err
	}
	if _, err := department.Parse(d.Department); err != nil {
		return err
	}
	return nil
}

// ToEmployee validates the DTO and converts it, keeping id as the employee id.
func (d UpsertEmployeeDTO) ToEmployee(id string) (Employee, error) {
	if err := d.Validate(); err != nil {
		return Employee{}, err
	}
	d = d.normalized()
	dept, _ := department.Parse(d.Department)
	return Employee{
		ID:         id,
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Rate:       d.Rate,
		Department: dept,
	}, nil
}

func (d UpsertEmployeeDTO) normalized() UpsertEmployeeDTO {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	return d
}

type EmployeesResponse struct {
	Employees []Employee `json:"employees"`
}

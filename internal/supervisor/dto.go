package supervisor

import (
	"strings"

	"github.com/frahmantamala/hours-portal/internal/core/common/validation"
	"github.com/frahmantamala/hours-portal/internal/department"
)

type UpsertSupervisorDTO struct {
	ID          string   `json:"id,omitempty"`
	FirstName   string   `json:"first_name" validate:"required,max=100"`
	LastName    string   `json:"last_name" validate:"required,max=100"`
	Email       string   `json:"email" validate:"required,email"`
	Departments []string `json:"departments"`
	IsAdmin     bool     `json:"is_admin"`
}

// ToSupervisor validates the DTO and converts it, keeping id as the supervisor id.
func (d UpsertSupervisorDTO) ToSupervisor(id string) (Supervisor, error) {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)

	if err := validation.Struct(d); err != nil {
		return Supervisor{}, err
	}
	depts, err := department.ParseList(d.Departments)
	if err != nil {
		return Supervisor{}, err
	}

	return Supervisor{
		ID:          id,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Departments: depts,
		IsAdmin:     d.IsAdmin,
	}, nil
}

type SupervisorsResponse struct {
	Supervisors []Supervisor `json:"supervisors"`
}

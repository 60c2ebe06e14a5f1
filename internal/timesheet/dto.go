package timesheet

import (
	"github.com/frahmantamala/hours-portal/internal/core/common/validation"
)

// UpsertEntryDTO sets one cell of the weekly grid. A null hours value clears
// the cell to 0, the same as an emptied input.
type UpsertEntryDTO struct {
	EmployeeID string   `json:"employee_id" validate:"required"`
	Date       string   `json:"date" validate:"required"`
	Hours      *float64 `json:"hours"`
}

func (d UpsertEntryDTO) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}
	return ValidateHours(d.HoursValue())
}

func (d UpsertEntryDTO) HoursValue() float64 {
	if d.Hours == nil {
		return 0
	}
	return *d.Hours
}

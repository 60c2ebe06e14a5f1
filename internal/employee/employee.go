package employee

import (
	"github.com/google/uuid"

	"github.com/frahmantamala/hours-portal/internal/department"
)

type Employee struct {
	ID         string                `json:"id"`
	FirstName  string                `json:"first_name"`
	LastName   string                `json:"last_name"`
	Email      string                `json:"email"`
	Rate       float64               `json:"rate"`
	Department department.Department `json:"department"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// NewID returns a fresh opaque employee id.
func NewID() string {
	return "emp-" + uuid.NewString()
}

// Initial is the roster a fresh installation starts with.
func Initial() []Employee {
	return []Employee{
		{
			ID:         "emp-1",
			FirstName:  "Daniel",
			LastName:   "Robles",
			Email:      "daniel@example.com",
			Rate:       25.00,
			Department: department.Affiliate,
		},
		{
			ID:         "emp-2",
			FirstName:  "Sarah",
			LastName:   "Smith",
			Email:      "sarah@example.com",
			Rate:       30.00,
			Department: department.Sales,
		},
	}
}

// IndexOf returns the position of id in list, or -1.
func IndexOf(list []Employee, id string) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

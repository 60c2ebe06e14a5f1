package supervisor

import (
	"strings"

	"github.com/google/uuid"

	"github.com/frahmantamala/hours-portal/internal/department"
)

// Supervisor is an account allowed to log in. IsAdmin grants every
// department plus supervisor and settings management, regardless of Departments.
type Supervisor struct {
	ID          string                  `json:"id"`
	FirstName   string                  `json:"first_name"`
	LastName    string                  `json:"last_name"`
	Email       string                  `json:"email"`
	Departments []department.Department `json:"departments"`
	IsAdmin     bool                    `json:"is_admin"`
}

func (s Supervisor) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Clone copies the supervisor including its department slice.
func (s Supervisor) Clone() Supervisor {
	cp := s
	cp.Departments = append([]department.Department(nil), s.Departments...)
	return cp
}

func NewID() string {
	return "sup-" + uuid.NewString()
}

// AllowList is the fixed set of accounts permitted to log in. It always
// overrides whatever supervisor list was persisted.
func AllowList() []Supervisor {
	return []Supervisor{
		{
			ID:          "sup-1",
			FirstName:   "Harry",
			LastName:    "Hedaya",
			Email:       "hhedaya@senditbytext.com",
			Departments: department.All(),
			IsAdmin:     true,
		},
		{
			ID:          "sup-2",
			FirstName:   "Sabrena",
			LastName:    "Eye",
			Email:       "seye@cardshield.me",
			Departments: []department.Department{department.Correspondence},
			IsAdmin:     true,
		},
		{
			ID:          "sup-3",
			FirstName:   "Joel",
			LastName:    "Vorbeck",
			Email:       "jvorbeck@cardshield.me",
			Departments: []department.Department{department.Sales, department.Operations, department.SIBTPWRAdmin, department.Affiliate},
			IsAdmin:     true,
		},
		{
			ID:          "sup-4",
			FirstName:   "Abe",
			LastName:    "Tozier",
			Email:       "atozier@cardshield.me",
			Departments: []department.Department{department.Operations, department.Affiliate},
			IsAdmin:     false,
		},
	}
}

// FindByEmail matches case-insensitively, ignoring surrounding whitespace.
func FindByEmail(list []Supervisor, email string) (Supervisor, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Supervisor{}, false
	}
	for _, s := range list {
		if strings.EqualFold(s.Email, email) {
			return s.Clone(), true
		}
	}
	return Supervisor{}, false
}

func FindByID(list []Supervisor, id string) (Supervisor, bool) {
	if i := IndexOf(list, id); i >= 0 {
		return list[i].Clone(), true
	}
	return Supervisor{}, false
}

func IndexOf(list []Supervisor, id string) int {
	for i, s := range list {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// EmailTaken reports whether another supervisor (not exceptID) already uses email.
func EmailTaken(list []Supervisor, email, exceptID string) bool {
	for _, s := range list {
		if s.ID != exceptID && strings.EqualFold(s.Email, strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

package auth

import (
	"strings"

	"github.com/frahmantamala/hours-portal/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
// Only presence is checked; a malformed address gets the same denial as an unknown one.
type LoginDTO struct {
	Email string `json:"email" validate:"required"`
}

func (d LoginDTO) Validate() error {
	d.Email = strings.TrimSpace(d.Email)
	if err := validation.Struct(d); err != nil {
		return err
	}
	return nil
}

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/hours-portal/internal/department"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
)

// TokenGenerator issues and checks bearer tokens for a supervisor.
type TokenGenerator interface {
	GenerateAccessToken(supervisorID, email string) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims represents JWT token claims
type Claims struct {
	SupervisorID string `json:"supervisor_id"`
	Email        string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

type LoginResponse struct {
	Token      string                `json:"token"`
	ExpiresAt  time.Time             `json:"expires_at"`
	Supervisor supervisor.Supervisor `json:"supervisor"`
}

type MeResponse struct {
	Supervisor  supervisor.Supervisor   `json:"supervisor"`
	Departments []department.Department `json:"departments"`
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/department"
	"github.com/frahmantamala/hours-portal/internal/supervisor"
)

// Session is the part of the session controller that auth drives.
type Session interface {
	Login(ctx context.Context, email string) (*supervisor.Supervisor, error)
	Logout(ctx context.Context, actorID string) error
	Authorize(actorID string) (*supervisor.Supervisor, error)
	VisibleDepartments(ctx context.Context, actorID string) ([]department.Department, error)
}

// Service is the main auth service with dependencies
type Service struct {
	session Session
	tokens  TokenGenerator
	logger  *slog.Logger
}

func NewService(session Session, tokens TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		session: session,
		tokens:  tokens,
		logger:  logger,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
		now:    time.Now,
	}
}

// Login looks the email up in the allow-list, opens the session and
// returns a bearer token for it.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sup, err := s.session.Login(ctx, dto.Email)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(sup.ID, sup.Email)
	if err != nil {
		s.logger.Error("failed to sign access token", "supervisor_id", sup.ID, "error", err)
		return nil, internal.NewInternalError("failed to issue token", err)
	}

	return &LoginResponse{Token: token, ExpiresAt: expiresAt, Supervisor: *sup}, nil
}

func (s *Service) Logout(ctx context.Context, actorID string) error {
	return s.session.Logout(ctx, actorID)
}

// Authenticate resolves a bearer token to the supervisor of the live
// session. A valid token for someone who is no longer the current user is
// rejected.
func (s *Service) Authenticate(tokenString string) (*supervisor.Supervisor, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return s.session.Authorize(claims.SupervisorID)
}

func (s *Service) Me(ctx context.Context, actorID string) (*MeResponse, error) {
	sup, err := s.session.Authorize(actorID)
	if err != nil {
		return nil, err
	}
	depts, err := s.session.VisibleDepartments(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{Supervisor: *sup, Departments: depts}, nil
}

func (j *JWTTokenGenerator) clock() time.Time {
	if j.now == nil {
		return time.Now()
	}
	return j.now()
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(supervisorID, email string) (string, time.Time, error) {
	now := j.clock()
	expiresAt := now.Add(j.TTL)

	claims := &Claims{
		SupervisorID: supervisorID,
		Email:        email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   supervisorID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.clock))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SupervisorID == "" {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

package ports

// Package ports defines interfaces (hexagonal ports) for the BFF.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"encoding/json"

	domainauth "github.com/finnabbear/finnabear-web/internal/domain/auth"
)

// LoginInput carries credentials for POST /auth/login.
type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// RegisterInput carries the registration form for POST /auth/register.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// BackendAPI is the upstream authentication API.
// Errors are *errors.AppError values coded transport, backend or malformed.
type BackendAPI interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, in LoginInput) (domainauth.Session, error)

	// Register creates an account and returns its session.
	Register(ctx context.Context, in RegisterInput) (domainauth.Session, error)

	// Me fetches the profile payload for a bearer token.
	Me(ctx context.Context, token string) (json.RawMessage, error)
}

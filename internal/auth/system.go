package auth

import (
	"context"

	"github.com/JaimeStill/acervo/pkg/lifecycle"
)

// System defines the public contract for authentication operations.
type System interface {
	Handler() *Handler

	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, username, password string) (*Token, error)
	// Authenticate resolves a bearer token to the principal of an existing user.
	Authenticate(ctx context.Context, token string) (*Principal, error)
	// ChangePassword replaces the password of username after verifying current.
	ChangePassword(ctx context.Context, username, current, next string) error
	// Register creates a new account.
	Register(ctx context.Context, username, password string) (*User, error)
	// EnsureAdmin creates the account when it does not exist. An existing
	// account keeps its password.
	EnsureAdmin(ctx context.Context, username, password string) error
	// Start registers a startup hook that seeds the administrator account.
	Start(lc *lifecycle.Coordinator, username, password string)
}

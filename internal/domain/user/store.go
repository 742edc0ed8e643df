package user

import (
	"context"
	"errors"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)

// Store is the credential store contract. Postgres backs it in production,
// the memory implementation backs tests and DB-less local runs.
type Store interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) (User, error)

	// SetRefreshTokenByEmail overwrites the persisted refresh token. At most one
	// refresh token is recognized per user: the one written last.
	SetRefreshTokenByEmail(ctx context.Context, email, token string) error

	// ClearRefreshTokenByID nulls the persisted refresh token on signout.
	ClearRefreshTokenByID(ctx context.Context, id string) error
}

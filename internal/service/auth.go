package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/geocoder89/authhub/internal/auth"
	"github.com/geocoder89/authhub/internal/domain/user"
	"github.com/geocoder89/authhub/internal/security"
	"github.com/google/uuid"
)

// Business precondition failures. All terminal and single-attempt; the HTTP
// layer maps each to a fixed status.
var (
	ErrPasswordMismatch   = errors.New("password confirmation mismatch")
	ErrAlreadyExists      = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
}

type SigninInput struct {
	UID      string
	Password string
}

// Session is the success payload for both signup and signin.
type Session struct {
	Name     string         `json:"name"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Tokens   auth.TokenPair `json:"tokens"`
}

type AuthService struct {
	store  user.Store
	tokens *auth.Manager
	log    *slog.Logger
}

func NewAuthService(store user.Store, tokens *auth.Manager, log *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		log:    log,
	}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (Session, error) {
	s.log.InfoContext(ctx, "signup request", "email", in.Email)

	if in.Password != in.ConfirmPassword {
		return Session{}, ErrPasswordMismatch
	}

	_, err := s.store.GetByEmail(ctx, in.Email)

	if err == nil {
		return Session{}, ErrAlreadyExists
	}

	if !errors.Is(err, user.ErrNotFound) {
		return Session{}, err
	}

	hash, err := security.HashPassword(in.Password)

	if err != nil {
		return Session{}, err
	}

	now := time.Now().UTC()

	u := user.User{
		ID:           uuid.NewString(),
		Username:     randomUsername(),
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.store.Create(ctx, u)

	if err != nil {
		// the unique constraint backstops the existence check above when two
		// signups for the same email race past it
		if errors.Is(err, user.ErrEmailTaken) {
			return Session{}, ErrAlreadyExists
		}

		return Session{}, err
	}

	return s.establishSession(ctx, created)
}

func (s *AuthService) Signin(ctx context.Context, in SigninInput) (Session, error) {
	s.log.InfoContext(ctx, "signin request", "uid", in.UID)

	u, err := s.store.GetByEmail(ctx, in.UID)

	if err != nil {
		// same error for an unknown account and a bad password, so callers
		// cannot probe which emails exist
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}

		return Session{}, err
	}

	err = security.CheckPassword(u.PasswordHash, in.Password)

	if err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return s.establishSession(ctx, u)
}

// Signout invalidates the current session by clearing the persisted refresh
// token. Access tokens already issued stay valid until their own expiry.
func (s *AuthService) Signout(ctx context.Context, subject string) error {
	s.log.InfoContext(ctx, "signout request", "subject", subject)

	err := s.store.ClearRefreshTokenByID(ctx, subject)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}

		return err
	}

	return nil
}

// establishSession issues the token pair and persists the refresh token on the
// user record, invalidating whatever refresh token was stored before.
func (s *AuthService) establishSession(ctx context.Context, u user.User) (Session, error) {
	claims := auth.NewClaims(u.ID, u.Name, u.Username, u.Email)

	pair, err := s.tokens.IssuePair(claims)

	if err != nil {
		return Session{}, err
	}

	err = s.store.SetRefreshTokenByEmail(ctx, u.Email, pair.RefreshToken)

	if err != nil {
		return Session{}, err
	}

	return Session{
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Tokens:   pair,
	}, nil
}

// randomUsername generates a username of the form user<1..999999>. There is no
// uniqueness check against the store; collisions surface as a store error.
func randomUsername() string {
	return fmt.Sprintf("user%d", rand.IntN(999999)+1)
}

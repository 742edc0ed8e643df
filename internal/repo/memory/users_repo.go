package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/authhub/internal/domain/user"
)

// UsersRepo is a mutex-guarded map implementation of user.Store. It backs the
// service tests and DB-less local runs.
type UsersRepo struct {
	mu      sync.RWMutex
	byEmail map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byEmail: make(map[string]user.User),
	}
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	u, ok := r.byEmail[email]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.byEmail[u.Email]

	if exists {
		return user.User{}, user.ErrEmailTaken
	}

	r.byEmail[u.Email] = u

	return u, nil
}

func (r *UsersRepo) SetRefreshTokenByEmail(ctx context.Context, email, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byEmail[email]

	if !ok {
		return user.ErrNotFound
	}

	u.RefreshToken = &token
	u.UpdatedAt = time.Now().UTC()
	r.byEmail[email] = u

	return nil
}

func (r *UsersRepo) ClearRefreshTokenByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for email, u := range r.byEmail {
		if u.ID == id {
			u.RefreshToken = nil
			u.UpdatedAt = time.Now().UTC()
			r.byEmail[email] = u
			return nil
		}
	}

	return user.ErrNotFound
}

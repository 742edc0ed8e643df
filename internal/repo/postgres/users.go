package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/authhub/internal/domain/user"
	"github.com/geocoder89/authhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type UsersRepo struct {
	pool    *pgxpool.Pool
	metrics *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, metrics *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, metrics: metrics}
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.metrics.ObserveDB("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, username, email, password_hash, refresh_token, created_at, updated_at
	         FROM users
	         WHERE email = $1`,
			email,
		).Scan(
			&u.ID,
			&u.Name,
			&u.Username,
			&u.Email,
			&u.PasswordHash,
			&u.RefreshToken,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.metrics.ObserveDB("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (id, name, username, email, password_hash, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			`,
			u.ID, u.Name, u.Username, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) SetRefreshTokenByEmail(ctx context.Context, email, token string) error {
	return r.update(ctx, "users.set_refresh_token",
		`UPDATE users
		SET refresh_token = $2, updated_at = NOW()
		WHERE email = $1`,
		email, token,
	)
}

func (r *UsersRepo) ClearRefreshTokenByID(ctx context.Context, id string) error {
	return r.update(ctx, "users.clear_refresh_token",
		`UPDATE users
		SET refresh_token = NULL, updated_at = NOW()
		WHERE id = $1`,
		id,
	)
}

func (r *UsersRepo) update(ctx context.Context, op, query string, args ...any) error {
	var tag pgconn.CommandTag

	err := r.metrics.ObserveDB(op, func() error {
		var err error
		tag, err = r.pool.Exec(ctx, query, args...)
		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

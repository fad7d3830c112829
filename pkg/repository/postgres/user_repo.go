package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/accounts/pkg/auth"
)

// opTimeout bounds every store call so a stuck connection surfaces as
// auth.ErrStoreUnavailable instead of hanging the request.
const opTimeout = 5 * time.Second

// UserRepository implements auth.UserRepository backed by PostgreSQL (pgx).
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	repo := &UserRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UserRepository) ensureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	// The unique index on email is load-bearing: it is the authoritative
	// duplicate signal for concurrent registrations (see Create).
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT,
			provider TEXT NOT NULL DEFAULT 'email',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

// Create inserts the user and returns it with the store-assigned id and
// timestamps. A unique violation on email maps to ErrEmailAlreadyRegistered.
func (r *UserRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, provider)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, strings.ToLower(user.Email), user.PasswordHash, user.Name, user.Provider)
	var createdAt, updatedAt time.Time
	if err := row.Scan(&user.ID, &createdAt, &updatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return auth.User{}, auth.ErrEmailAlreadyRegistered
		}
		return auth.User{}, storeErr("insert user", err)
	}
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = createdAt.UTC()
	user.UpdatedAt = updatedAt.UTC()
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, provider, created_at, updated_at
		FROM users WHERE email = $1
	`, strings.ToLower(email))
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, provider, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (auth.User, error) {
	var user auth.User
	var createdAt, updatedAt time.Time
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.Provider, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, storeErr("select user", err)
	}
	user.CreatedAt = createdAt.UTC()
	user.UpdatedAt = updatedAt.UTC()
	return user, nil
}

// storeErr turns timeouts and connectivity failures into the retryable
// auth.ErrStoreUnavailable; anything else is wrapped as-is.
func storeErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, auth.ErrStoreUnavailable)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%s: %w", op, auth.ErrStoreUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

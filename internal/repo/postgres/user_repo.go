package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

type UserRow struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash, role string, at time.Time) (UserRow, error) {
	if email == "" || passwordHash == "" {
		return UserRow{}, fmt.Errorf("invalid user payload")
	}
	if r.pool == nil {
		return UserRow{}, fmt.Errorf("postgres pool is nil")
	}

	row := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, role, created_at, updated_at)
VALUES (LOWER($1), $2, $3, $4, $4)
ON CONFLICT (email) DO NOTHING
RETURNING id, email, password_hash, role, created_at, updated_at
`, strings.TrimSpace(email), passwordHash, role, at.UTC())

	item, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRow{}, ErrEmailTaken
		}
		return UserRow{}, fmt.Errorf("create user: %w", err)
	}

	return item, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (UserRow, error) {
	if email == "" || r.pool == nil {
		return UserRow{}, ErrUserNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, role, created_at, updated_at
FROM users
WHERE email = LOWER($1)
LIMIT 1
`, strings.TrimSpace(email))

	item, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRow{}, ErrUserNotFound
		}
		return UserRow{}, fmt.Errorf("get user by email: %w", err)
	}

	return item, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (UserRow, error) {
	if id <= 0 || r.pool == nil {
		return UserRow{}, ErrUserNotFound
	}

	row := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, role, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1
`, id)

	item, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRow{}, ErrUserNotFound
		}
		return UserRow{}, fmt.Errorf("get user by id: %w", err)
	}

	return item, nil
}

func scanUserRow(row pgx.Row) (UserRow, error) {
	var item UserRow
	err := row.Scan(
		&item.ID,
		&item.Email,
		&item.PasswordHash,
		&item.Role,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"health-tracker/internal/auth"
)

// Repository is a Postgres-backed auth.UserStore.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (auth.User, error) {
	var u auth.User
	var name sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("query user by email: %w", err)
	}
	u.Name = name.String

	return u, nil
}

func (r *Repository) Create(ctx context.Context, email, passwordHash, name string) (auth.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return auth.User{}, fmt.Errorf("generate user id: %w", err)
	}

	var nameValue any
	if name != "" {
		nameValue = name
	}

	now := time.Now().UTC()

	var u auth.User
	var storedName sql.NullString
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, email, password_hash, name, created_at, updated_at
	`, id.String(), email, passwordHash, nameValue, now).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &storedName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return auth.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.Name = storedName.String

	return u, nil
}

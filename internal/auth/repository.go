// Package auth handles email/password authentication for staff accounts.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// credentials is the internal login view of a user row.
type credentials struct {
	UserID       string
	Email        string
	PasswordHash string
	Role         string
}

// Repository handles credential lookups.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new auth Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetCredentials returns the stored credentials for the given email.
func (r *Repository) GetCredentials(ctx context.Context, email string) (*credentials, error) {
	c := &credentials{}
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role
		 FROM users WHERE email = $1`,
		email,
	).Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	return c, nil
}

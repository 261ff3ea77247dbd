// Package lead manages sales leads and their persistence.
package lead

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead represents a potential or active customer of the business.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a lead does not exist.
var ErrNotFound = errors.New("lead not found")

// Repository handles all lead database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const leadColumns = `id, name, phone, email, address, status, notes, created_at, updated_at`

// Create inserts a new lead and returns the created record.
func (r *Repository) Create(ctx context.Context, l *Lead) (*Lead, error) {
	created := &Lead{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO leads (name, phone, email, address, status, notes)
		 VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'new'), $6)
		 RETURNING `+leadColumns,
		l.Name, l.Phone, l.Email, l.Address, l.Status, l.Notes,
	).Scan(
		&created.ID, &created.Name, &created.Phone, &created.Email,
		&created.Address, &created.Status, &created.Notes,
		&created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return created, nil
}

// GetByID fetches a lead by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Lead, error) {
	l := &Lead{}
	err := r.db.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`,
		id,
	).Scan(
		&l.ID, &l.Name, &l.Phone, &l.Email, &l.Address,
		&l.Status, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead by id: %w", err)
	}
	return l, nil
}

// List returns leads, newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status string) ([]*Lead, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+leadColumns+` FROM leads
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		l := &Lead{}
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Phone, &l.Email, &l.Address,
			&l.Status, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// Update applies the non-nil fields of patch to the lead and returns the
// updated record.
func (r *Repository) Update(ctx context.Context, id string, patch *Patch) (*Lead, error) {
	l := &Lead{}
	err := r.db.QueryRow(ctx,
		`UPDATE leads SET
		    name       = COALESCE($2, name),
		    phone      = COALESCE($3, phone),
		    email      = COALESCE($4, email),
		    address    = COALESCE($5, address),
		    status     = COALESCE($6, status),
		    notes      = COALESCE($7, notes),
		    updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+leadColumns,
		id, patch.Name, patch.Phone, patch.Email, patch.Address, patch.Status, patch.Notes,
	).Scan(
		&l.ID, &l.Name, &l.Phone, &l.Email, &l.Address,
		&l.Status, &l.Notes, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return l, nil
}

// Delete removes the lead; its files cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Patch holds optional field updates for a lead; nil fields are left unchanged.
type Patch struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
	Status  *string `json:"status"`
	Notes   *string `json:"notes"`
}

package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the persistence contract for file metadata. The service layer
// depends on this interface so tests can substitute an in-memory fake.
type Repository interface {
	Create(ctx context.Context, f *File) (*File, error)
	GetByID(ctx context.Context, id string) (*File, error)
	ListByLead(ctx context.Context, leadID string) ([]*File, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PGRepository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: db}
}

const fileColumns = `id, lead_id, name, size, mime_type, category,
	primary_url, drive_file_id, drive_view_url, storage_location, created_at`

// Create inserts a new file row and returns the created record.
func (r *PGRepository) Create(ctx context.Context, f *File) (*File, error) {
	created := &File{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO files (lead_id, name, size, mime_type, category,
		                    primary_url, drive_file_id, drive_view_url, storage_location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+fileColumns,
		f.LeadID, f.Name, f.Size, f.MimeType, f.Category,
		f.PrimaryURL, f.DriveFileID, f.DriveViewURL, f.StorageLocation,
	).Scan(
		&created.ID, &created.LeadID, &created.Name, &created.Size, &created.MimeType,
		&created.Category, &created.PrimaryURL, &created.DriveFileID, &created.DriveViewURL,
		&created.StorageLocation, &created.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("create file: %w", err)
	}
	created.resolveCanonical()
	return created, nil
}

// GetByID fetches a file by its UUID.
func (r *PGRepository) GetByID(ctx context.Context, id string) (*File, error) {
	f := &File{}
	err := r.db.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1`,
		id,
	).Scan(
		&f.ID, &f.LeadID, &f.Name, &f.Size, &f.MimeType,
		&f.Category, &f.PrimaryURL, &f.DriveFileID, &f.DriveViewURL,
		&f.StorageLocation, &f.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file by id: %w", err)
	}
	f.resolveCanonical()
	return f, nil
}

// ListByLead returns all files owned by the given lead, newest first.
func (r *PGRepository) ListByLead(ctx context.Context, leadID string) ([]*File, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+fileColumns+` FROM files WHERE lead_id = $1 ORDER BY created_at DESC`,
		leadID,
	)
	if err != nil {
		return nil, fmt.Errorf("list files for lead: %w", err)
	}
	defer rows.Close()

	var files []*File
	for rows.Next() {
		f := &File{}
		if err := rows.Scan(
			&f.ID, &f.LeadID, &f.Name, &f.Size, &f.MimeType,
			&f.Category, &f.PrimaryURL, &f.DriveFileID, &f.DriveViewURL,
			&f.StorageLocation, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		f.resolveCanonical()
		files = append(files, f)
	}
	return files, rows.Err()
}

// Delete removes the file row. Deleting an already-absent row is not an error.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// isForeignKeyViolation checks whether an error is a PostgreSQL foreign_key_violation (code 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/hearthside/crm/internal/drive"
	"github.com/hearthside/crm/internal/storage"
)

// Service orchestrates uploads and deletions across the primary object store,
// the Drive backup, and the metadata table. It is the only component allowed
// to create or delete file rows.
type Service struct {
	repo  Repository
	store storage.ObjectStore
	drive drive.Drive // nil when backups are not configured
}

// NewService creates a new file Service. drv may be nil, in which case every
// upload is stored primary-only.
func NewService(repo Repository, store storage.ObjectStore, drv drive.Drive) *Service {
	return &Service{repo: repo, store: store, drive: drv}
}

// UploadInput carries one file upload and its metadata hints.
type UploadInput struct {
	LeadID      string
	Filename    string
	DisplayName string // optional override for the stored name
	MimeType    string
	Category    string
	Content     []byte
}

// Upload stores the file and returns its metadata record.
//
// The order is deliberate and strictly sequential: primary first (fatal on
// failure, nothing else is attempted), then the Drive backup (best effort),
// then the metadata row. If the row cannot be written, the already-uploaded
// copies are deleted again so no untracked artifacts remain — from the
// caller's point of view the operation is all-or-nothing.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*File, error) {
	name := in.DisplayName
	if name == "" {
		name = in.Filename
	}
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	key := objectKey(in.LeadID, in.Filename)
	primaryURL, err := s.store.Put(ctx, key, bytes.NewReader(in.Content), int64(len(in.Content)), mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrimaryStorage, err)
	}

	var driveFileID, driveViewURL *string
	if s.drive != nil {
		created, derr := s.drive.CreateFile(ctx, name, bytes.NewReader(in.Content), mimeType)
		if derr != nil {
			// Non-fatal: the primary copy is authoritative, the backup can be
			// backfilled later by reconciliation.
			log.Printf("file: drive backup of %q failed, continuing primary-only: %v", name, derr)
		} else {
			driveFileID = &created.ID
			driveViewURL = &created.ViewURL
		}
	}

	rec := &File{
		LeadID:          in.LeadID,
		Name:            name,
		Size:            int64(len(in.Content)),
		MimeType:        mimeType,
		Category:        optional(in.Category),
		PrimaryURL:      &primaryURL,
		DriveFileID:     driveFileID,
		DriveViewURL:    driveViewURL,
		StorageLocation: locationFor(&primaryURL, driveFileID),
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		s.cleanupUpload(ctx, primaryURL, driveFileID)
		if errors.Is(err, ErrOwnerNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMetadataPersist, err)
	}
	return created, nil
}

// cleanupUpload removes the backend copies created by a failed upload so no
// untracked artifact survives. Failures here only get logged: the orphan is
// invisible to the application and can be garbage-collected later.
func (s *Service) cleanupUpload(ctx context.Context, primaryURL string, driveFileID *string) {
	if err := s.store.Delete(ctx, primaryURL); err != nil {
		log.Printf("file: cleanup of primary copy %q failed: %v", primaryURL, err)
	}
	if driveFileID != nil && s.drive != nil {
		if err := s.drive.Delete(ctx, *driveFileID); err != nil {
			log.Printf("file: cleanup of drive copy %q failed: %v", *driveFileID, err)
		}
	}
}

// DeletionResult reports the outcome of a Delete call. Failed lists the
// backends ("primary", "drive") whose cleanup did not succeed; the metadata
// record is gone either way.
type DeletionResult struct {
	Found  bool
	Failed []string
}

// Delete removes the file from both backends and then drops the metadata row.
//
// Backend failures never abort the deletion: the row is what makes the file
// exist to the application, and a dangling remote blob is preferable to a
// dangling reference the UI keeps showing. Deleting an unknown id is not an
// error — the result just reports Found=false.
func (s *Service) Delete(ctx context.Context, id string) (*DeletionResult, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return &DeletionResult{Found: false}, nil
	}
	if err != nil {
		return nil, err
	}

	res := &DeletionResult{Found: true}

	if rec.PrimaryURL != nil {
		if err := s.store.Delete(ctx, *rec.PrimaryURL); err != nil {
			log.Printf("file: primary delete of %q failed: %v", *rec.PrimaryURL, err)
			res.Failed = append(res.Failed, "primary")
		}
	}
	if rec.DriveFileID != nil {
		if s.drive == nil {
			log.Printf("file: drive copy %q left behind, no drive client configured", *rec.DriveFileID)
			res.Failed = append(res.Failed, "drive")
		} else if err := s.drive.Delete(ctx, *rec.DriveFileID); err != nil {
			log.Printf("file: drive delete of %q failed: %v", *rec.DriveFileID, err)
			res.Failed = append(res.Failed, "drive")
		}
	}

	if err := s.repo.Delete(ctx, rec.ID); err != nil {
		return nil, err
	}
	return res, nil
}

// Get returns the metadata record for the given file id.
func (s *Service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByLead returns all files owned by the given lead.
func (s *Service) ListByLead(ctx context.Context, leadID string) ([]*File, error) {
	return s.repo.ListByLead(ctx, leadID)
}

// objectKey builds the primary-store key for an upload: the owning lead's id
// plus a fresh UUID, keeping the original file extension for readability.
func objectKey(leadID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return leadID + "/" + uuid.NewString() + ext
}

// optional maps an empty string to nil for nullable columns.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

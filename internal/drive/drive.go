// Package drive defines the client for the secondary backup backend: a
// folder-hierarchy cloud-drive service holding a durable second copy of every
// uploaded document.
package drive

import (
	"context"
	"io"
)

// CreatedFile is the result of a successful backup upload.
type CreatedFile struct {
	// ID is the drive service's opaque file id, used for deletion and for
	// constructing the direct-download URL.
	ID string
	// ViewURL is the human-viewable link to the file.
	ViewURL string
}

// Drive is the secondary storage backend. Implementations must authenticate
// with service-level credentials, never a user session, so backups also work
// for unattended uploads (webhooks, background jobs).
type Drive interface {
	// CreateFile uploads the content into the shared backup folder.
	CreateFile(ctx context.Context, name string, reader io.Reader, contentType string) (*CreatedFile, error)
	// Delete removes the file with the given id.
	Delete(ctx context.Context, fileID string) error
}

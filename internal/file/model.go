// Package file implements document storage for the CRM: every uploaded file
// (contract, photo, estimate) is written to a fast primary object store and,
// best effort, to a Google Drive backup folder, with a single metadata row
// tracking where the copies live.
package file

import (
	"errors"
	"time"
)

// StorageLocation records which backends hold a copy of the file.
type StorageLocation string

const (
	// LocationPrimary means only the primary object store holds the file.
	LocationPrimary StorageLocation = "primary"
	// LocationSecondary means only the Drive backup holds the file.
	LocationSecondary StorageLocation = "secondary"
	// LocationBoth means both backends hold a copy.
	LocationBoth StorageLocation = "both"
)

// ErrNotFound is returned when a file record does not exist.
var ErrNotFound = errors.New("file not found")

// ErrOwnerNotFound is returned when the referenced lead does not exist.
var ErrOwnerNotFound = errors.New("lead not found")

// ErrPrimaryStorage is returned when the primary object store rejects or
// fails an upload. No metadata record is created in that case.
var ErrPrimaryStorage = errors.New("primary storage failure")

// ErrMetadataPersist is returned when the metadata row could not be written
// after the backend uploads succeeded. The uploaded copies are cleaned up
// before this error surfaces.
var ErrMetadataPersist = errors.New("file metadata persistence failure")

// ErrUnresolvable is returned when a record references no backend at all.
// The files table CHECK constraint makes this unreachable for persisted rows;
// seeing it means the metadata is corrupt.
var ErrUnresolvable = errors.New("file has no resolvable URL")

// File is the canonical metadata record for one uploaded document. A row
// exists only after at least one backend upload succeeded; URL always points
// at the best available copy.
type File struct {
	ID       string  `json:"id"`
	LeadID   string  `json:"leadId"`
	Name     string  `json:"name"`
	Size     int64   `json:"size"`
	MimeType string  `json:"mimeType"`
	Category *string `json:"category,omitempty"`

	PrimaryURL   *string `json:"primaryUrl,omitempty"`
	DriveFileID  *string `json:"driveFileId,omitempty"`
	DriveViewURL *string `json:"driveViewUrl,omitempty"`

	StorageLocation StorageLocation `json:"storageLocation"`
	// URL is the canonical URL handed to storage-unaware consumers:
	// the primary URL when present, otherwise the Drive view link.
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// locationFor derives the storage location from which backend refs are set.
func locationFor(primaryURL, driveFileID *string) StorageLocation {
	switch {
	case primaryURL != nil && driveFileID != nil:
		return LocationBoth
	case driveFileID != nil:
		return LocationSecondary
	default:
		return LocationPrimary
	}
}

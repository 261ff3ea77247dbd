package file

import (
	"github.com/hearthside/crm/internal/drive"
)

// ViewURL returns the best browser-viewable URL for the file: the primary
// copy when present, otherwise the Drive view link.
func (f *File) ViewURL() (string, error) {
	if f.PrimaryURL != nil && *f.PrimaryURL != "" {
		return *f.PrimaryURL, nil
	}
	if f.DriveViewURL != nil && *f.DriveViewURL != "" {
		return *f.DriveViewURL, nil
	}
	return "", ErrUnresolvable
}

// DownloadURL returns a direct-download URL. The primary URL already is one;
// when only the Drive copy exists, the Drive file id is rewritten into its
// direct-download form without any network call.
func (f *File) DownloadURL() (string, error) {
	if f.PrimaryURL != nil && *f.PrimaryURL != "" {
		return *f.PrimaryURL, nil
	}
	if f.DriveFileID != nil && *f.DriveFileID != "" {
		return drive.DownloadURL(*f.DriveFileID), nil
	}
	return "", ErrUnresolvable
}

// resolveCanonical fills in the canonical URL field after a scan or create.
// A record with neither backend never reaches this point in normal operation,
// so the canonical URL is left empty rather than failing the whole read.
func (f *File) resolveCanonical() {
	if url, err := f.ViewURL(); err == nil {
		f.URL = url
	}
}

package drive

import (
	"context"
	"fmt"
	"io"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleDrive implements Drive using the Google Drive v3 API with a service
// account, so uploads succeed regardless of which staff member (if any)
// triggered them.
type GoogleDrive struct {
	srv      *gdrive.Service
	folderID string
}

// NewGoogleDrive builds a Drive client from a service-account credentials file
// and the id of the shared folder all backups are placed under.
func NewGoogleDrive(ctx context.Context, credentialsFile, folderID string) (*GoogleDrive, error) {
	srv, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &GoogleDrive{srv: srv, folderID: folderID}, nil
}

// CreateFile uploads the content into the shared backup folder and returns
// the Drive file id plus its view link.
func (d *GoogleDrive) CreateFile(ctx context.Context, name string, reader io.Reader, contentType string) (*CreatedFile, error) {
	meta := &gdrive.File{Name: name}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}

	created, err := d.srv.Files.Create(meta).
		Media(reader, googleapi.ContentType(contentType)).
		Fields("id", "webViewLink").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive upload %q: %w", name, err)
	}

	viewURL := created.WebViewLink
	if viewURL == "" {
		viewURL = ViewURL(created.Id)
	}
	return &CreatedFile{ID: created.Id, ViewURL: viewURL}, nil
}

// Delete removes the file with the given id from Drive.
func (d *GoogleDrive) Delete(ctx context.Context, fileID string) error {
	err := d.srv.Files.Delete(fileID).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("drive delete %q: %w", fileID, err)
	}
	return nil
}

// ViewURL constructs the human-viewable link for a Drive file id.
func ViewURL(fileID string) string {
	return "https://drive.google.com/file/d/" + fileID + "/view"
}

// DownloadURL rewrites a Drive file id into its direct-download form. This is
// a pure string transformation, not a network call, so URL resolution works
// even when Drive itself is degraded.
func DownloadURL(fileID string) string {
	return "https://drive.google.com/uc?export=download&id=" + fileID
}

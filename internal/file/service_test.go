package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/hearthside/crm/internal/drive"
)

// --- Fakes ---

// fakeStore is an in-memory ObjectStore that records calls.
type fakeStore struct {
	putFn    func(key string) (string, error)
	deleteFn func(publicURL string) error

	putCalls    int
	deleteCalls []string
}

func (s *fakeStore) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	s.putCalls++
	if s.putFn != nil {
		return s.putFn(key)
	}
	return "https://store.example.com/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, publicURL string) error {
	s.deleteCalls = append(s.deleteCalls, publicURL)
	if s.deleteFn != nil {
		return s.deleteFn(publicURL)
	}
	return nil
}

// fakeDrive is an in-memory Drive backend that records calls.
type fakeDrive struct {
	createFn func(name string) (*drive.CreatedFile, error)
	deleteFn func(fileID string) error

	createCalls int
	deleteCalls []string
}

func (d *fakeDrive) CreateFile(_ context.Context, name string, _ io.Reader, _ string) (*drive.CreatedFile, error) {
	d.createCalls++
	if d.createFn != nil {
		return d.createFn(name)
	}
	return &drive.CreatedFile{ID: "drv-1", ViewURL: "https://drive.google.com/file/d/drv-1/view"}, nil
}

func (d *fakeDrive) Delete(_ context.Context, fileID string) error {
	d.deleteCalls = append(d.deleteCalls, fileID)
	if d.deleteFn != nil {
		return d.deleteFn(fileID)
	}
	return nil
}

// fakeRepo is an in-memory Repository.
type fakeRepo struct {
	createFn func(f *File) (*File, error)

	records map[string]*File
	nextID  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]*File{}}
}

func (r *fakeRepo) Create(_ context.Context, f *File) (*File, error) {
	if r.createFn != nil {
		return r.createFn(f)
	}
	r.nextID++
	stored := *f
	stored.ID = fmt.Sprintf("file-%d", r.nextID)
	stored.resolveCanonical()
	r.records[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*File, error) {
	f, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

func (r *fakeRepo) ListByLead(_ context.Context, leadID string) ([]*File, error) {
	var out []*File
	for _, f := range r.records {
		if f.LeadID == leadID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.records, id)
	return nil
}

func testInput() UploadInput {
	return UploadInput{
		LeadID:   "lead-42",
		Filename: "estimate.pdf",
		MimeType: "application/pdf",
		Content:  []byte(strings.Repeat("x", 2400)),
	}
}

// --- Upload ---

func TestUpload_BothBackends(t *testing.T) {
	store := &fakeStore{}
	drv := &fakeDrive{}
	repo := newFakeRepo()
	svc := NewService(repo, store, drv)

	f, err := svc.Upload(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if f.Name != "estimate.pdf" {
		t.Errorf("Name = %q, want estimate.pdf", f.Name)
	}
	if f.Size != 2400 {
		t.Errorf("Size = %d, want 2400", f.Size)
	}
	if f.StorageLocation != LocationBoth {
		t.Errorf("StorageLocation = %q, want %q", f.StorageLocation, LocationBoth)
	}
	if f.PrimaryURL == nil || f.DriveFileID == nil {
		t.Fatalf("expected both backend refs set, got primary=%v drive=%v", f.PrimaryURL, f.DriveFileID)
	}
	if f.URL != *f.PrimaryURL {
		t.Errorf("canonical URL = %q, want the primary URL %q", f.URL, *f.PrimaryURL)
	}
	if len(repo.records) != 1 {
		t.Errorf("expected exactly one record, got %d", len(repo.records))
	}
}

func TestUpload_PrimaryFailureIsFatal(t *testing.T) {
	store := &fakeStore{putFn: func(string) (string, error) {
		return "", errors.New("connection refused")
	}}
	drv := &fakeDrive{}
	repo := newFakeRepo()
	svc := NewService(repo, store, drv)

	_, err := svc.Upload(context.Background(), testInput())
	if !errors.Is(err, ErrPrimaryStorage) {
		t.Fatalf("err = %v, want ErrPrimaryStorage", err)
	}
	if drv.createCalls != 0 {
		t.Errorf("drive was called %d times after primary failure, want 0", drv.createCalls)
	}
	if len(repo.records) != 0 {
		t.Errorf("expected no records after primary failure, got %d", len(repo.records))
	}
}

func TestUpload_DriveFailureIsNonFatal(t *testing.T) {
	store := &fakeStore{putFn: func(string) (string, error) {
		return "https://store/abc.pdf", nil
	}}
	drv := &fakeDrive{createFn: func(string) (*drive.CreatedFile, error) {
		return nil, errors.New("timeout")
	}}
	repo := newFakeRepo()
	svc := NewService(repo, store, drv)

	f, err := svc.Upload(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if f.StorageLocation != LocationPrimary {
		t.Errorf("StorageLocation = %q, want %q", f.StorageLocation, LocationPrimary)
	}
	if f.DriveFileID != nil {
		t.Errorf("DriveFileID = %q, want nil", *f.DriveFileID)
	}
	if f.URL != "https://store/abc.pdf" {
		t.Errorf("canonical URL = %q, want https://store/abc.pdf", f.URL)
	}
}

func TestUpload_NoDriveConfigured(t *testing.T) {
	store := &fakeStore{}
	repo := newFakeRepo()
	svc := NewService(repo, store, nil)

	f, err := svc.Upload(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if f.StorageLocation != LocationPrimary {
		t.Errorf("StorageLocation = %q, want %q", f.StorageLocation, LocationPrimary)
	}
}

func TestUpload_MetadataFailureCleansUpBothBackends(t *testing.T) {
	store := &fakeStore{}
	drv := &fakeDrive{}
	repo := newFakeRepo()
	repo.createFn = func(*File) (*File, error) {
		return nil, errors.New("deadlock detected")
	}
	svc := NewService(repo, store, drv)

	_, err := svc.Upload(context.Background(), testInput())
	if !errors.Is(err, ErrMetadataPersist) {
		t.Fatalf("err = %v, want ErrMetadataPersist", err)
	}
	if len(store.deleteCalls) != 1 {
		t.Errorf("primary delete called %d times, want 1", len(store.deleteCalls))
	}
	if len(drv.deleteCalls) != 1 {
		t.Errorf("drive delete called %d times, want 1", len(drv.deleteCalls))
	}
}

func TestUpload_DisplayNameOverride(t *testing.T) {
	store := &fakeStore{}
	repo := newFakeRepo()
	svc := NewService(repo, store, nil)

	in := testInput()
	in.DisplayName = "Kitchen estimate (signed)"
	f, err := svc.Upload(context.Background(), in)
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if f.Name != "Kitchen estimate (signed)" {
		t.Errorf("Name = %q, want the display-name override", f.Name)
	}
}

// --- Delete ---

func TestDelete_RemovesRecordAndBothCopies(t *testing.T) {
	store := &fakeStore{}
	drv := &fakeDrive{}
	repo := newFakeRepo()
	svc := NewService(repo, store, drv)

	f, err := svc.Upload(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	res, err := svc.Delete(context.Background(), f.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !res.Found {
		t.Error("Found = false, want true")
	}
	if len(res.Failed) != 0 {
		t.Errorf("Failed = %v, want empty", res.Failed)
	}
	if len(repo.records) != 0 {
		t.Errorf("record still present after delete")
	}
	if len(store.deleteCalls) != 1 || len(drv.deleteCalls) != 1 {
		t.Errorf("backend deletes = (%d, %d), want (1, 1)", len(store.deleteCalls), len(drv.deleteCalls))
	}
}

func TestDelete_Idempotent(t *testing.T) {
	store := &fakeStore{}
	repo := newFakeRepo()
	svc := NewService(repo, store, nil)

	f, err := svc.Upload(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if _, err := svc.Delete(context.Background(), f.ID); err != nil {
		t.Fatalf("first Delete returned error: %v", err)
	}

	res, err := svc.Delete(context.Background(), f.ID)
	if err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
	if res.Found {
		t.Error("second Delete: Found = true, want false")
	}
}

func TestDelete_BackendFailureDoesNotBlock(t *testing.T) {
	store := &fakeStore{deleteFn: func(string) error {
		return errors.New("503 service unavailable")
	}}
	drv := &fakeDrive{}
	repo := newFakeRepo()
	svc := NewService(repo, store, drv)

	f, err := svc.Upload(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	res, err := svc.Delete(context.Background(), f.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !res.Found {
		t.Error("Found = false, want true")
	}
	if len(res.Failed) != 1 || res.Failed[0] != "primary" {
		t.Errorf("Failed = %v, want [primary]", res.Failed)
	}
	if len(repo.records) != 0 {
		t.Error("record still present after delete with backend failure")
	}
	if len(drv.deleteCalls) != 1 {
		t.Errorf("drive delete called %d times, want 1 despite primary failure", len(drv.deleteCalls))
	}
}

func TestDelete_DriveFailureReported(t *testing.T) {
	store := &fakeStore{}
	drv := &fakeDrive{deleteFn: func(string) error {
		return errors.New("quota exceeded")
	}}
	repo := newFakeRepo()
	svc := NewService(repo, store, drv)

	f, err := svc.Upload(context.Background(), testInput())
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	res, err := svc.Delete(context.Background(), f.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(res.Failed) != 1 || res.Failed[0] != "drive" {
		t.Errorf("Failed = %v, want [drive]", res.Failed)
	}
	if len(repo.records) != 0 {
		t.Error("record still present after delete with drive failure")
	}
}

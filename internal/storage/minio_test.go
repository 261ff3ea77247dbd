package storage

import "testing"

func TestKeyFromURL(t *testing.T) {
	s := &MinioStore{publicBase: "http://localhost:9000/documents"}

	key, err := s.keyFromURL("http://localhost:9000/documents/lead-42/abc.pdf")
	if err != nil {
		t.Fatalf("keyFromURL returned error: %v", err)
	}
	if key != "lead-42/abc.pdf" {
		t.Errorf("key = %q, want lead-42/abc.pdf", key)
	}
}

func TestKeyFromURL_RejectsForeignURL(t *testing.T) {
	s := &MinioStore{publicBase: "http://localhost:9000/documents"}

	if _, err := s.keyFromURL("https://drive.google.com/file/d/drv-1/view"); err == nil {
		t.Error("expected an error for a URL outside the public base")
	}
	if _, err := s.keyFromURL("http://localhost:9000/documents/"); err == nil {
		t.Error("expected an error for an empty key")
	}
}

package signature

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeProvider counts lookups so tests can assert the chain short-circuits.
type fakeProvider struct {
	getEnvelopeFn   func(envelopeID string) (*Envelope, error)
	listDocumentsFn func(envelopeID string) ([]Document, error)

	getEnvelopeCalls   int
	listDocumentsCalls int
}

func (p *fakeProvider) GetEnvelope(_ context.Context, envelopeID string) (*Envelope, error) {
	p.getEnvelopeCalls++
	if p.getEnvelopeFn != nil {
		return p.getEnvelopeFn(envelopeID)
	}
	return &Envelope{ID: envelopeID, Status: "completed"}, nil
}

func (p *fakeProvider) ListDocuments(_ context.Context, envelopeID string) ([]Document, error) {
	p.listDocumentsCalls++
	if p.listDocumentsFn != nil {
		return p.listDocumentsFn(envelopeID)
	}
	return nil, nil
}

func TestLocateArtifact_PayloadURLShortCircuits(t *testing.T) {
	provider := &fakeProvider{}
	r := NewResolver(provider, "https://api.esign.example.com/v1")

	url, err := r.LocateArtifact(context.Background(), Event{
		EnvelopeID:  "env-1",
		DocumentURL: "https://files.esign.example.com/signed.pdf",
	})
	if err != nil {
		t.Fatalf("LocateArtifact returned error: %v", err)
	}
	if url != "https://files.esign.example.com/signed.pdf" {
		t.Errorf("url = %q, want the payload URL", url)
	}
	if provider.getEnvelopeCalls != 0 || provider.listDocumentsCalls != 0 {
		t.Errorf("provider was called (%d, %d) times, want no lookups after a payload hit",
			provider.getEnvelopeCalls, provider.listDocumentsCalls)
	}
}

func TestLocateArtifact_EnvelopeLookup(t *testing.T) {
	provider := &fakeProvider{getEnvelopeFn: func(string) (*Envelope, error) {
		return &Envelope{ID: "env-1", DownloadURL: "https://files.esign.example.com/env-1.pdf"}, nil
	}}
	r := NewResolver(provider, "https://api.esign.example.com/v1")

	url, err := r.LocateArtifact(context.Background(), Event{EnvelopeID: "env-1"})
	if err != nil {
		t.Fatalf("LocateArtifact returned error: %v", err)
	}
	if url != "https://files.esign.example.com/env-1.pdf" {
		t.Errorf("url = %q, want the envelope download URL", url)
	}
	if provider.listDocumentsCalls != 0 {
		t.Errorf("document list was called %d times, want 0 after an envelope hit", provider.listDocumentsCalls)
	}
}

func TestLocateArtifact_DocumentListFallback(t *testing.T) {
	provider := &fakeProvider{
		getEnvelopeFn: func(string) (*Envelope, error) {
			return &Envelope{ID: "env-1"}, nil // no download_url
		},
		listDocumentsFn: func(string) ([]Document, error) {
			return []Document{{ID: "doc-1", FileURL: "https://files.esign.example.com/doc-1.pdf"}}, nil
		},
	}
	r := NewResolver(provider, "https://api.esign.example.com/v1")

	url, err := r.LocateArtifact(context.Background(), Event{EnvelopeID: "env-1"})
	if err != nil {
		t.Fatalf("LocateArtifact returned error: %v", err)
	}
	if url != "https://files.esign.example.com/doc-1.pdf" {
		t.Errorf("url = %q, want the first document's file URL", url)
	}
}

func TestLocateArtifact_SlugConstruction(t *testing.T) {
	provider := &fakeProvider{
		getEnvelopeFn: func(string) (*Envelope, error) {
			return nil, errors.New("500 internal server error")
		},
		listDocumentsFn: func(string) ([]Document, error) {
			return nil, errors.New("500 internal server error")
		},
	}
	r := NewResolver(provider, "https://api.esign.example.com/v1/")

	url, err := r.LocateArtifact(context.Background(), Event{
		EnvelopeID:   "env-1",
		DocumentSlug: "kitchen-remodel-contract",
	})
	if err != nil {
		t.Fatalf("LocateArtifact returned error: %v", err)
	}
	want := "https://api.esign.example.com/v1/documents/kitchen-remodel-contract/download"
	if url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
}

func TestLocateArtifact_Exhausted(t *testing.T) {
	provider := &fakeProvider{
		getEnvelopeFn: func(string) (*Envelope, error) {
			return nil, errors.New("connection reset")
		},
		listDocumentsFn: func(string) ([]Document, error) {
			return []Document{}, nil
		},
	}
	r := NewResolver(provider, "https://api.esign.example.com/v1")

	_, err := r.LocateArtifact(context.Background(), Event{EnvelopeID: "env-1"})
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want *ExhaustedError", err)
	}

	if len(exhausted.Attempts) != 4 {
		t.Fatalf("Attempts = %d, want one per strategy (4)", len(exhausted.Attempts))
	}
	wantStrategies := []string{strategyPayloadURL, strategyEnvelopeLookup, strategyDocumentList, strategySlugURL}
	for i, want := range wantStrategies {
		if exhausted.Attempts[i].Strategy != want {
			t.Errorf("Attempts[%d].Strategy = %q, want %q", i, exhausted.Attempts[i].Strategy, want)
		}
		if exhausted.Attempts[i].Reason == "" {
			t.Errorf("Attempts[%d] has no reason", i)
		}
	}

	// The distinct failure kinds must be distinguishable from the error text.
	msg := err.Error()
	for _, fragment := range []string{"absent", "lookup failed", "empty"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("error %q does not mention %q", msg, fragment)
		}
	}
}

func TestLocateArtifact_NoEnvelopeIDSkipsLookups(t *testing.T) {
	provider := &fakeProvider{}
	r := NewResolver(provider, "https://api.esign.example.com/v1")

	_, err := r.LocateArtifact(context.Background(), Event{})
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want *ExhaustedError", err)
	}
	if provider.getEnvelopeCalls != 0 || provider.listDocumentsCalls != 0 {
		t.Errorf("provider was called (%d, %d) times without an envelope id, want none",
			provider.getEnvelopeCalls, provider.listDocumentsCalls)
	}
}

package signature

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandler(provider Provider) *Handler {
	resolver := NewResolver(provider, "https://api.esign.example.com/v1")
	// The file service is only reached once an artifact has been located and
	// fetched; these tests stop before that.
	return NewHandler(resolver, nil, "topsecret", nil)
}

func postWebhook(h *Handler, secret, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/signature", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)
	return rec
}

func TestWebhook_RejectsBadSecret(t *testing.T) {
	h := newTestHandler(&fakeProvider{})
	rec := postWebhook(h, "wrong", `{"event":"envelope.completed"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestWebhook_IgnoresOtherEvents(t *testing.T) {
	provider := &fakeProvider{}
	h := newTestHandler(provider)

	rec := postWebhook(h, "topsecret", `{"event":"envelope.viewed","envelope_id":"env-1"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if provider.getEnvelopeCalls != 0 {
		t.Errorf("provider called for an ignored event")
	}
}

func TestWebhook_MissingLeadIsBadRequest(t *testing.T) {
	h := newTestHandler(&fakeProvider{})
	rec := postWebhook(h, "topsecret", `{"event":"envelope.completed","envelope_id":"env-1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReadAtMost(t *testing.T) {
	content, err := readAtMost(strings.NewReader("1234"), 4)
	if err != nil {
		t.Fatalf("readAtMost at the limit returned error: %v", err)
	}
	if string(content) != "1234" {
		t.Errorf("content = %q, want the full body", content)
	}

	if _, err := readAtMost(strings.NewReader("12345"), 4); err == nil {
		t.Error("expected an error for a body one byte over the limit")
	}
}

func TestWebhook_RejectsOversizedDocument(t *testing.T) {
	// Serve one chunk more than the artifact cap; the document must be
	// rejected, not archived truncated.
	chunk := bytes.Repeat([]byte("x"), 1<<20)
	docSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for written := int64(0); written <= maxArtifactBytes; written += int64(len(chunk)) {
			_, _ = w.Write(chunk)
		}
	}))
	defer docSrv.Close()

	resolver := NewResolver(&fakeProvider{}, "https://api.esign.example.com/v1")
	h := NewHandler(resolver, nil, "topsecret", docSrv.Client())

	rec := postWebhook(h, "topsecret",
		`{"event":"envelope.completed","envelope_id":"env-1","lead_id":"lead-42","document_url":"`+docSrv.URL+`"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502 for an oversized document", rec.Code)
	}
}

func TestWebhook_ExhaustedChainIsAccepted(t *testing.T) {
	provider := &fakeProvider{
		getEnvelopeFn: func(string) (*Envelope, error) {
			return nil, errors.New("503")
		},
		listDocumentsFn: func(string) ([]Document, error) {
			return nil, errors.New("503")
		},
	}
	h := newTestHandler(provider)

	rec := postWebhook(h, "topsecret",
		`{"event":"envelope.completed","envelope_id":"env-1","lead_id":"lead-42"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Status   string    `json:"status"`
			Attempts []Attempt `json:"attempts"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Data.Status != "pending" {
		t.Errorf("status = %q, want pending", body.Data.Status)
	}
	if len(body.Data.Attempts) != 4 {
		t.Errorf("attempts = %d, want 4", len(body.Data.Attempts))
	}
}

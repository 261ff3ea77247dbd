package signature

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/hearthside/crm/internal/file"
	"github.com/hearthside/crm/internal/response"
)

// maxArtifactBytes caps the size of a fetched signed document at 32 MiB.
const maxArtifactBytes = 32 << 20

// Handler receives e-signature webhooks and archives completed documents.
type Handler struct {
	resolver *Resolver
	files    *file.Service
	secret   string
	client   *http.Client
}

// NewHandler creates a webhook Handler. client may be nil to use
// http.DefaultClient for artifact downloads.
func NewHandler(resolver *Resolver, files *file.Service, secret string, client *http.Client) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	return &Handler{resolver: resolver, files: files, secret: secret, client: client}
}

// Webhook godoc
//
//	@Summary		E-signature provider webhook
//	@Description	On envelope completion, locates the signed document and stores it as a contract file on the lead. Authenticated via the X-Webhook-Secret header.
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			X-Webhook-Secret	header		string	true	"Shared webhook secret"
//	@Param			event				body		Event	true	"Webhook event"
//	@Success		200					{object}	response.Envelope
//	@Success		202					{object}	response.Envelope
//	@Failure		400					{object}	response.Envelope
//	@Failure		401					{object}	response.Envelope
//	@Router			/webhooks/signature [post]
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	got := r.Header.Get("X-Webhook-Secret")
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
		response.Unauthorized(w, "invalid webhook secret")
		return
	}

	var ev Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		response.BadRequest(w, "invalid webhook payload")
		return
	}

	if ev.Type != completedEventType {
		// Acknowledge everything else so the provider stops retrying.
		response.OK(w, map[string]string{"status": "ignored"})
		return
	}
	if ev.LeadID == "" {
		response.BadRequest(w, "event carries no lead_id")
		return
	}

	artifactURL, err := h.resolver.LocateArtifact(r.Context(), ev)
	var exhausted *ExhaustedError
	if errors.As(err, &exhausted) {
		// Not available yet. Acknowledge with 202 so the provider retries.
		log.Printf("signature: envelope %s document not locatable yet: %v", ev.EnvelopeID, exhausted)
		response.Accepted(w, map[string]interface{}{
			"status":   "pending",
			"attempts": exhausted.Attempts,
		})
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	content, contentType, err := h.fetchArtifact(r, artifactURL)
	if err != nil {
		log.Printf("signature: fetching signed document for envelope %s failed: %v", ev.EnvelopeID, err)
		response.BadGateway(w, "signed document could not be fetched")
		return
	}

	name := ev.DocumentName
	if name == "" {
		name = "signed-contract.pdf"
	}

	created, err := h.files.Upload(r.Context(), file.UploadInput{
		LeadID:   ev.LeadID,
		Filename: name,
		MimeType: contentType,
		Category: "contract",
		Content:  content,
	})
	switch {
	case errors.Is(err, file.ErrOwnerNotFound):
		response.BadRequest(w, "event references an unknown lead")
		return
	case errors.Is(err, file.ErrPrimaryStorage):
		response.BadGateway(w, "document storage is currently unavailable")
		return
	case err != nil:
		response.InternalError(w)
		return
	}

	response.OK(w, created)
}

// fetchArtifact downloads the located document.
func (h *Handler) fetchArtifact(r *http.Request, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	content, err := readAtMost(resp.Body, maxArtifactBytes)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return content, resp.Header.Get("Content-Type"), nil
}

// readAtMost reads the full body, failing when it exceeds limit. A plain
// LimitReader would hand back exactly limit bytes with a clean EOF, and a
// truncated contract must never be archived as if it were complete.
func readAtMost(r io.Reader, limit int64) ([]byte, error) {
	content, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > limit {
		return nil, fmt.Errorf("body exceeds the %d byte limit", limit)
	}
	return content, nil
}

package signature

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Envelope is the provider's envelope resource, reduced to what the resolver needs.
type Envelope struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	DownloadURL string `json:"download_url"`
}

// Document is one entry of the provider's per-envelope document list.
type Document struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	FileURL string `json:"file_url"`
}

// Provider performs follow-up lookups against the e-signature API. The
// resolver calls it at most once per strategy.
type Provider interface {
	GetEnvelope(ctx context.Context, envelopeID string) (*Envelope, error)
	ListDocuments(ctx context.Context, envelopeID string) ([]Document, error)
}

// HTTPProvider implements Provider against the provider's REST API.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider client. client may be nil to use
// http.DefaultClient.
func NewHTTPProvider(baseURL, apiKey string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{baseURL: baseURL, apiKey: apiKey, client: client}
}

// GetEnvelope fetches a single envelope by id.
func (p *HTTPProvider) GetEnvelope(ctx context.Context, envelopeID string) (*Envelope, error) {
	var env Envelope
	if err := p.getJSON(ctx, "/envelopes/"+url.PathEscape(envelopeID), &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// ListDocuments fetches the documents attached to an envelope.
func (p *HTTPProvider) ListDocuments(ctx context.Context, envelopeID string) ([]Document, error) {
	var out struct {
		Documents []Document `json:"documents"`
	}
	if err := p.getJSON(ctx, "/envelopes/"+url.PathEscape(envelopeID)+"/documents", &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

// getJSON performs an authenticated GET and decodes the JSON body into dst.
func (p *HTTPProvider) getJSON(ctx context.Context, path string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

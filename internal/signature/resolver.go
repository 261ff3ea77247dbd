package signature

import (
	"context"
	"fmt"
	"strings"
)

// Attempt records why one resolution strategy did not produce a URL.
type Attempt struct {
	Strategy string `json:"strategy"`
	Reason   string `json:"reason"`
}

// ExhaustedError is returned when every strategy in the fallback chain failed.
// It lists each attempt so operators can spot upstream contract drift from the
// error alone. Callers should treat it as "document not available yet", not as
// a defect; the provider can be asked again later.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Strategy+": "+a.Reason)
	}
	return "no strategy located the signed document (" + strings.Join(parts, "; ") + ")"
}

// Strategy names, in chain order.
const (
	strategyPayloadURL     = "payload_url"
	strategyEnvelopeLookup = "envelope_lookup"
	strategyDocumentList   = "document_list"
	strategySlugURL        = "slug_url"
)

// Resolver locates the signed document behind a webhook event by trying a
// fixed, ordered list of strategies: a URL already on the payload, an
// envelope lookup, a document-list lookup, and finally a URL constructed from
// the document slug. The first non-empty result wins and no further strategy
// runs.
type Resolver struct {
	provider Provider
	baseURL  string
}

// NewResolver creates a Resolver. baseURL is the provider API base used for
// slug-constructed URLs.
func NewResolver(provider Provider, baseURL string) *Resolver {
	return &Resolver{provider: provider, baseURL: strings.TrimRight(baseURL, "/")}
}

// LocateArtifact returns the download URL of the signed document, or an
// *ExhaustedError describing every failed attempt.
func (r *Resolver) LocateArtifact(ctx context.Context, ev Event) (string, error) {
	var attempts []Attempt

	// 1. The payload may already carry the URL.
	if ev.DocumentURL != "" {
		return ev.DocumentURL, nil
	}
	attempts = append(attempts, Attempt{strategyPayloadURL, "document_url absent from payload"})

	// 2. One lookup: the envelope resource may carry a download URL.
	if ev.EnvelopeID == "" {
		attempts = append(attempts, Attempt{strategyEnvelopeLookup, "envelope_id absent from payload"})
	} else if env, err := r.provider.GetEnvelope(ctx, ev.EnvelopeID); err != nil {
		attempts = append(attempts, Attempt{strategyEnvelopeLookup, fmt.Sprintf("lookup failed: %v", err)})
	} else if env.DownloadURL == "" {
		attempts = append(attempts, Attempt{strategyEnvelopeLookup, "envelope has no download_url"})
	} else {
		return env.DownloadURL, nil
	}

	// 3. Second lookup: the envelope's document list.
	if ev.EnvelopeID == "" {
		attempts = append(attempts, Attempt{strategyDocumentList, "envelope_id absent from payload"})
	} else if docs, err := r.provider.ListDocuments(ctx, ev.EnvelopeID); err != nil {
		attempts = append(attempts, Attempt{strategyDocumentList, fmt.Sprintf("lookup failed: %v", err)})
	} else if len(docs) == 0 || docs[0].FileURL == "" {
		attempts = append(attempts, Attempt{strategyDocumentList, "document list empty or first document has no file_url"})
	} else {
		return docs[0].FileURL, nil
	}

	// 4. No lookup: construct the URL from the slug.
	if ev.DocumentSlug == "" {
		attempts = append(attempts, Attempt{strategySlugURL, "document_slug absent from payload"})
	} else {
		return r.baseURL + "/documents/" + ev.DocumentSlug + "/download", nil
	}

	return "", &ExhaustedError{Attempts: attempts}
}

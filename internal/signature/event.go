// Package signature handles e-signature provider webhooks: when an envelope
// is completed, the signed document is located through an ordered fallback
// chain and archived into the lead's files.
package signature

// Event is the inbound webhook payload. The provider's payload shape has
// drifted across API versions, so every field except Type is optional; the
// resolver's fallback chain deals with whichever ones are present.
type Event struct {
	// Type is the event name, e.g. "envelope.completed".
	Type string `json:"event"`
	// EnvelopeID identifies the signing envelope for follow-up lookups.
	EnvelopeID string `json:"envelope_id"`
	// LeadID is our own reference, echoed back from the envelope metadata.
	LeadID string `json:"lead_id"`
	// DocumentURL, when present, is a ready-to-use download link for the
	// signed document.
	DocumentURL string `json:"document_url"`
	// DocumentSlug is a short identifier some payload versions carry instead
	// of a URL; a download link can be constructed from it.
	DocumentSlug string `json:"document_slug"`
	// DocumentName is the display name for the signed document, if given.
	DocumentName string `json:"document_name"`
}

// completedEventType is the only event the webhook acts on.
const completedEventType = "envelope.completed"

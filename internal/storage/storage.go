// Package storage defines the client for the primary object store.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider (MinIO, AWS S3, DO Spaces).
package storage

import (
	"context"
	"io"
)

// ObjectStore is the primary storage backend: fast, immediately consistent,
// and publicly readable. Put returns the browser-accessible URL that becomes
// the authoritative URL for the uploaded object.
type ObjectStore interface {
	// Put streams data to the store under the given key and returns its public URL.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object identified by its public URL.
	Delete(ctx context.Context, publicURL string) error
}

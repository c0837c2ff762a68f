package storage

import (
	"context"
	"io"
)

// ObjectStorage defines the interface for the cover image cache.
type ObjectStorage interface {
	// Upload stores an object under key
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download retrieves an object by key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns the public URL for an object
	GetURL(key string) string

	// Delete removes an object
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)
}

// Package storage abstracts the blob store holding raw document bytes.
// Implementations stream content and never touch local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutOptions carries optional upload parameters. Size must be the exact byte
// count when known; -1 lets the backend chunk as it sees fit.
type PutOptions struct {
	Size        int64
	ContentType string
}

// BlobStore is the adapter in front of the object store (MinIO/S3 in
// production, in-memory in tests). Calls are fallible network I/O; callers
// must not hold document-level state across them.
type BlobStore interface {
	// Put uploads an object under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) error
	// Get returns the object content as a streaming reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for downloading the object
	// without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

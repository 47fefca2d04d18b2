// Package storage abstracts where uploaded image bytes live. Production uses
// an S3-compatible object store; tests use the in-memory implementation.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectStorage stores and retrieves uploaded files by their server-assigned
// object key.
type ObjectStorage interface {
	// Put streams an object into storage under the given key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens an object for reading. The caller must close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

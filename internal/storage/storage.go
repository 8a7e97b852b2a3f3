package storage

import (
	"context"
	"io"
)

// ObjectStore persists uploaded files and serves them back by public URL.
type ObjectStore interface {
	// Put streams the content to the store and returns a stable,
	// dereferenceable public URL for it.
	Put(ctx context.Context, filename, contentType string, r io.Reader) (string, error)

	// Delete removes the object behind a previously returned URL.
	// Deleting an object that is already gone is a success.
	Delete(ctx context.Context, url string) error
}

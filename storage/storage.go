package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/kbukum/speechkit/provider"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("storage: object not found")

// Object describes a stored object.
type Object struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ContentType  string    `json:"content_type,omitempty"`
}

// Storage is an object store. Keys are slash separated and relative.
type Storage interface {
	provider.Provider

	// Put writes size bytes from r under key. A negative size means unknown.
	// Writing an existing key replaces it, so Put may be retried.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get returns the object content. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns an address for the object.
	URL(ctx context.Context, key string) (string, error)

	// List returns the objects whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Object, error)
}

// SignedURLProvider is implemented by backends that can hand out
// time-limited links to private objects.
type SignedURLProvider interface {
	SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// PutBytes stores data under key.
func PutBytes(ctx context.Context, s Storage, key string, data []byte, contentType string) error {
	return s.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
}

// GetBytes reads the whole object stored under key.
func GetBytes(ctx context.Context, s Storage, key string) ([]byte, error) {
	rc, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ShareURL returns a signed link when the backend supports it and expiry is
// positive, and the plain URL otherwise.
func ShareURL(ctx context.Context, s Storage, key string, expiry time.Duration) (string, error) {
	if signer, ok := s.(SignedURLProvider); ok && expiry > 0 {
		return signer.SignedURL(ctx, key, expiry)
	}
	return s.URL(ctx, key)
}

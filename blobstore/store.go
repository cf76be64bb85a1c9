package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for accessing whole-object data blobs.
// Container files are stored and replaced as single blobs.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create creates a blob for streaming writes. The blob becomes
	// visible atomically when the returned handle is closed.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a whole blob atomically, replacing any previous
	// content.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns all blob names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at offset off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// ReadRange returns a reader over [off, off+length), clamped to
	// the blob size.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)

	// Size returns the size of the blob in bytes.
	Size() int64

	// Close releases the handle.
	Close() error
}

// WritableBlob is a write-once handle to a new blob.
type WritableBlob interface {
	io.Writer

	// Sync flushes buffered data where the backend supports it.
	Sync() error

	// Close finalizes the blob. Content is not visible until Close
	// returns nil.
	Close() error
}

// ReadAll reads a whole blob.
func ReadAll(ctx context.Context, s Store, name string) ([]byte, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = b.Close() }()

	data := make([]byte, b.Size())
	if len(data) == 0 {
		return data, nil
	}

	n, err := b.ReadAt(ctx, data, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return data[:n], nil
}

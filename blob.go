package sparsecdf

import (
	"context"

	"github.com/hupe1980/sparsecdf/blobstore"
	"github.com/hupe1980/sparsecdf/container"
)

// Create starts a write session whose Close uploads the container to
// store under name as a single blob. ctx governs the upload performed
// by Close.
func Create(ctx context.Context, store blobstore.Store, name string, optFns ...Option) (*Writer, error) {
	m := container.NewMemory()
	w, err := NewWriter(m, optFns...)
	if err != nil {
		return nil, err
	}

	w.logger = w.logger.WithPath(name)
	w.save = func() error { return m.SaveBlob(ctx, store, name) }
	return w, nil
}

// Open starts a read session on the container blob stored under name.
// A missing blob satisfies errors.Is(err, blobstore.ErrNotFound).
func Open(ctx context.Context, store blobstore.Store, name string, optFns ...Option) (*Reader, error) {
	m, err := container.LoadBlob(ctx, store, name)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(m, optFns...)
	if err != nil {
		return nil, err
	}

	r.logger = r.logger.WithPath(name)
	return r, nil
}

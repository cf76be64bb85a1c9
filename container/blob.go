package container

import (
	"context"
	"fmt"

	"github.com/hupe1980/sparsecdf/blobstore"
)

// SaveBlob writes the container as a single blob. Blob stores put
// whole objects, so the write is atomic at the store's granularity.
func (m *Memory) SaveBlob(ctx context.Context, store blobstore.Store, name string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("container: failed to put blob %q: %w", name, err)
	}

	return nil
}

// LoadBlob reads a container blob written by SaveBlob. A missing blob
// satisfies errors.Is(err, blobstore.ErrNotFound).
func LoadBlob(ctx context.Context, store blobstore.Store, name string) (*Memory, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, err
	}

	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("container: blob %q: %w", name, err)
	}

	return m, nil
}

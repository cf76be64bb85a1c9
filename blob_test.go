package sparsecdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sparsecdf/blobstore"
)

func TestBlobRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := Create(ctx, store, "graph.scdf")
	require.NoError(t, err)
	require.NoError(t, w.Write(newCSR()))
	require.NoError(t, w.Write(newDegrees([]int64{2, 0, 1, 3}), WithName("row_degrees")))
	require.NoError(t, w.Close())

	r, err := Open(ctx, store, "graph.scdf")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	got, err := r.Read()
	require.NoError(t, err)
	assert.True(t, newCSR().Equal(got))

	names, err := r.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"row_degrees"}, names)
}

func TestOpenBlobMissing(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	_, err := Open(ctx, store, "absent.scdf")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestBlobNoPublishBeforeClose(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := Create(ctx, store, "graph.scdf")
	require.NoError(t, err)
	require.NoError(t, w.Write(newCSR()))

	// Nothing is uploaded until the session closes.
	_, err = Open(ctx, store, "graph.scdf")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, w.Close())

	r, err := Open(ctx, store, "graph.scdf")
	require.NoError(t, err)
	require.NoError(t, r.Close())
}

func TestConcurrentBlobReaders(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	w, err := Create(ctx, store, "graph.scdf")
	require.NoError(t, err)
	require.NoError(t, w.Write(newCSR()))
	require.NoError(t, w.Close())

	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < 8; i++ {
		g.Go(func() error {
			r, err := Open(ctx, store, "graph.scdf")
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			got, err := r.Read()
			if err != nil {
				return err
			}
			if !newCSR().Equal(got) {
				return assert.AnError
			}

			return nil
		})
	}

	require.NoError(t, g.Wait())
}

package blobstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimitedStorePassesDataThrough(t *testing.T) {
	ctx := context.Background()

	inner := NewMemoryStore()
	store := NewRateLimitedStore(inner, 1<<20)

	require.NoError(t, store.Put(ctx, "obj", []byte("throttled")))

	b, err := store.Open(ctx, "obj")
	require.NoError(t, err)
	defer b.Close()

	buf := make([]byte, 9)
	n, err := b.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Equal(t, "throttled", string(buf))

	w, err := store.Create(ctx, "obj2")
	require.NoError(t, err)
	_, err = w.Write([]byte("written"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := ReadAll(ctx, store, "obj2")
	require.NoError(t, err)
	require.Equal(t, "written", string(data))

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"obj", "obj2"}, names)
}

func TestRateLimitedStoreThrottlesReads(t *testing.T) {
	ctx := context.Background()

	inner := NewMemoryStore()
	data := make([]byte, 300)
	require.NoError(t, inner.Put(ctx, "obj", data))

	// 100 bytes/sec: the initial burst covers the first 100 bytes, so a
	// 300 byte read has to wait for at least two more refill seconds.
	store := NewRateLimitedStore(inner, 100)

	b, err := store.Open(ctx, "obj")
	require.NoError(t, err)
	defer b.Close()

	start := time.Now()
	buf := make([]byte, 300)
	_, err = b.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 1500*time.Millisecond)
}

func TestRateLimitedStoreHonorsContext(t *testing.T) {
	inner := NewMemoryStore()
	require.NoError(t, inner.Put(context.Background(), "obj", make([]byte, 1000)))

	store := NewRateLimitedStore(inner, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	b, err := store.Open(ctx, "obj")
	require.NoError(t, err)
	defer b.Close()

	buf := make([]byte, 1000)
	_, err = b.ReadAt(ctx, buf, 0)
	require.Error(t, err)
}

package blobstore

import (
	"context"

	"github.com/hupe1980/sparsecdf/internal/cache"
)

// CachingStore wraps a Store and caches whole blobs in memory.
// Container files are read end to end, so caching complete blobs
// saves repeated fetches from remote backends.
type CachingStore struct {
	inner Store
	cache *cache.LRU
}

// NewCachingStore creates a new CachingStore holding at most maxBytes
// of blob data. maxBytes defaults to 64MB if <= 0.
func NewCachingStore(inner Store, maxBytes int64) *CachingStore {
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRU(maxBytes),
	}
}

// Open returns the cached blob when present; otherwise it reads the
// blob through and caches it when it fits.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.Get(name); ok {
		return &memoryBlob{data: data}, nil
	}

	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	data := make([]byte, b.Size())
	if _, err := readFull(ctx, b, data); err != nil {
		_ = b.Close()
		return nil, err
	}

	if err := b.Close(); err != nil {
		return nil, err
	}

	s.cache.Set(name, data)

	return &memoryBlob{data: data}, nil
}

// Create passes through; the cache entry is dropped since the blob is
// being replaced.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

// Put passes through and drops the cache entry.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete passes through and drops the cache entry.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List passes through.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hit and miss counters.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(key string) bool { return key == name })
}

func readFull(ctx context.Context, b Blob, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n, err := b.ReadAt(ctx, p, 0)
	if n == len(p) {
		return n, nil
	}
	return n, err
}

package blobstore

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// RateLimitedStore wraps a Store and throttles byte throughput.
// Useful for bulk imports and exports that must not saturate shared
// network or disk bandwidth.
type RateLimitedStore struct {
	inner   Store
	limiter *rate.Limiter
}

// NewRateLimitedStore creates a store limited to bytesPerSec of
// combined read and write throughput.
func NewRateLimitedStore(inner Store, bytesPerSec int) *RateLimitedStore {
	return &RateLimitedStore{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

// wait reserves n bytes of throughput, splitting requests larger than
// the burst size.
func (s *RateLimitedStore) wait(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}

	burst := s.limiter.Burst()
	for n > burst {
		if err := s.limiter.WaitN(ctx, burst); err != nil {
			return err
		}
		n -= burst
	}

	return s.limiter.WaitN(ctx, n)
}

// Open opens a blob whose reads count against the limit.
func (s *RateLimitedStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &rateLimitedBlob{inner: b, store: s}, nil
}

// Create creates a blob whose writes count against the limit.
func (s *RateLimitedStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &rateLimitedWritableBlob{inner: w, store: s, ctx: ctx}, nil
}

// Put writes a whole blob, waiting for throughput first.
func (s *RateLimitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.wait(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Delete passes through unthrottled.
func (s *RateLimitedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List passes through unthrottled.
func (s *RateLimitedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type rateLimitedBlob struct {
	inner Blob
	store *RateLimitedStore
}

func (b *rateLimitedBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.store.wait(ctx, len(p)); err != nil {
		return 0, err
	}
	return b.inner.ReadAt(ctx, p, off)
}

func (b *rateLimitedBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if remaining := b.inner.Size() - off; length > remaining {
		length = remaining
	}
	if err := b.store.wait(ctx, int(length)); err != nil {
		return nil, err
	}
	return b.inner.ReadRange(ctx, off, length)
}

func (b *rateLimitedBlob) Size() int64 {
	return b.inner.Size()
}

func (b *rateLimitedBlob) Close() error {
	return b.inner.Close()
}

type rateLimitedWritableBlob struct {
	inner WritableBlob
	store *RateLimitedStore
	ctx   context.Context
}

func (w *rateLimitedWritableBlob) Write(p []byte) (int, error) {
	if err := w.store.wait(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.inner.Write(p)
}

func (w *rateLimitedWritableBlob) Sync() error {
	return w.inner.Sync()
}

func (w *rateLimitedWritableBlob) Close() error {
	return w.inner.Close()
}

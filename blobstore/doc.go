// Package blobstore provides storage abstraction for container files.
//
// Store is the interface for reading and writing data blobs. A
// container file is stored and replaced as one blob, so Put must be
// atomic: readers see either the old or the new content, never a mix.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with temp-file plus rename writes
//   - MemoryStore: In-memory store for testing
//   - s3.Store: Amazon S3 with range reads and managed uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Wrappers
//
//   - CachingStore: whole-blob LRU cache in front of a remote store
//   - RateLimitedStore: byte-throughput throttling
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for streaming writes
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore

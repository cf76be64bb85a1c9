// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("containers/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large containers
//   - CRC32C integrity validation on writes
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//
// CommitStore layers DynamoDB-mediated atomic commits on top, so
// concurrent writers can publish new container versions safely.
// ExpressStore targets S3 Express One Zone directory buckets for
// latency-sensitive readers.
package s3

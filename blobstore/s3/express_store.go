package s3

import (
	"bytes"
	"context"
	"errors"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/hupe1980/sparsecdf/blobstore"
)

// ErrConflict is returned when a conditional write fails because the
// object already exists.
var ErrConflict = errors.New("object already exists")

// ExpressStore implements blobstore.Store for S3 Express One Zone.
//
// S3 Express One Zone is a high-performance, single-Availability Zone
// storage class with consistent single-digit millisecond access.
//
// Key differences from standard S3:
//   - Uses directory buckets (bucket names end with --azid--x-s3)
//   - Requires CreateSession for authentication
//   - Supports conditional writes (If-None-Match) for atomic operations
//
// Use this store for latency-sensitive readers, e.g. Lambda functions
// loading containers on demand or real-time pipelines that open many
// small container files.
type ExpressStore struct {
	client Client
	bucket string
	prefix string
	upload UploadConfig
}

// NewExpressStore creates an S3 Express One Zone blob store.
// The bucket must be a directory bucket (ending with --azid--x-s3).
func NewExpressStore(client Client, bucket, rootPrefix string) *ExpressStore {
	return &ExpressStore{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
		upload: DefaultUploadConfig(),
	}
}

func (s *ExpressStore) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open opens a blob for reading.
func (s *ExpressStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	return openBlob(ctx, s.client, s.bucket, s.key(name))
}

// Put writes a blob, replacing any previous content.
func (s *ExpressStore) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	return err
}

// PutIfNotExists writes a blob only if it does not already exist,
// using an If-None-Match conditional write. Returns ErrConflict when
// the key is already taken. Useful for write-once container objects.
func (s *ExpressStore) PutIfNotExists(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		IfNoneMatch:   aws.String("*"),
	})
	if err != nil {
		// S3 Express signals an existing object with PreconditionFailed
		// or ConditionalRequestConflict.
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			code := apiErr.ErrorCode()
			if code == "PreconditionFailed" || code == "ConditionalRequestConflict" {
				return ErrConflict
			}
		}
		return err
	}

	return nil
}

// Create starts a streaming upload that becomes visible on Close.
func (s *ExpressStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	uploader := newUploader(s.client, s.upload)
	return newStreamingWritableBlob(ctx, uploader, s.bucket, s.key(name), s.upload.EnableChecksum), nil
}

// Delete removes a blob.
func (s *ExpressStore) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	return err
}

// List returns blob names under the prefix, sorted.
func (s *ExpressStore) List(ctx context.Context, prefix string) ([]string, error) {
	return listObjects(ctx, s.client, s.bucket, s.key(prefix), s.prefix)
}

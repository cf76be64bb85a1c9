package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/sparsecdf/blobstore"
)

// Client is the subset of the S3 API used by the stores in this
// package. *s3.Client satisfies it; tests substitute a mock.
type Client interface {
	manager.UploadAPIClient
	s3.ListObjectsV2APIClient

	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options configures a Store created with New.
type Options struct {
	// Prefix is prepended to all blob names (e.g. "containers/").
	Prefix string

	// Region overrides the region resolved from the environment.
	Region string

	// Upload tunes multipart upload behavior.
	Upload UploadConfig
}

// WithPrefix sets the key prefix prepended to all blob names.
func WithPrefix(prefix string) func(*Options) {
	return func(o *Options) {
		o.Prefix = prefix
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) func(*Options) {
	return func(o *Options) {
		o.Region = region
	}
}

// WithUploadConfig overrides the default upload settings.
func WithUploadConfig(cfg UploadConfig) func(*Options) {
	return func(o *Options) {
		o.Upload = cfg
	}
}

// Store implements blobstore.Store for S3.
type Store struct {
	client Client
	bucket string
	prefix string
	upload UploadConfig
}

// New creates an S3 blob store using credentials and region from the
// default AWS config chain.
func New(ctx context.Context, bucket string, optFns ...func(*Options)) (*Store, error) {
	opts := Options{Upload: DefaultUploadConfig()}
	for _, fn := range optFns {
		fn(&opts)
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: failed to load AWS config: %w", err)
	}

	store := NewStore(s3.NewFromConfig(cfg), bucket, opts.Prefix)
	store.upload = opts.Upload

	return store, nil
}

// NewStore creates an S3 blob store from an existing client.
// rootPrefix is prepended to all keys (e.g. "my-data/").
func NewStore(client Client, bucket, rootPrefix string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
		prefix: rootPrefix,
		upload: DefaultUploadConfig(),
	}
}

func (s *Store) key(name string) string {
	return path.Join(s.prefix, name)
}

// Open opens a blob for reading.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	return openBlob(ctx, s.client, s.bucket, s.key(name))
}

// Create starts a streaming multipart upload. The object becomes
// visible when the returned handle is closed.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	uploader := newUploader(s.client, s.upload)
	return newStreamingWritableBlob(ctx, uploader, s.bucket, s.key(name), s.upload.EnableChecksum), nil
}

// Put writes a whole blob in a single request. S3 object replacement
// is atomic: readers see either the old or the new content.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	key := s.key(name)

	if s.upload.EnableChecksum {
		return putWithChecksum(ctx, s.client, s.bucket, key, data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})

	return err
}

// Delete removes a blob. S3 deletes of missing keys succeed.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	return err
}

// List returns blob names under the prefix, sorted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	return listObjects(ctx, s.client, s.bucket, s.key(prefix), s.prefix)
}

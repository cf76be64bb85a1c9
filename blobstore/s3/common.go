package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/sparsecdf/blobstore"
)

// baseBlob provides the blob read path shared by Store and
// ExpressStore. All reads go through ranged GETs.
type baseBlob struct {
	client Client
	bucket string
	key    string
	size   int64
}

func (b *baseBlob) Close() error {
	return nil
}

func (b *baseBlob) Size() int64 {
	return b.size
}

// ReadAt reads len(p) bytes starting at offset off. Short reads at the
// end of the blob return io.EOF.
func (b *baseBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off >= b.size {
		return 0, io.EOF
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	end := off + int64(len(p)) - 1
	if end >= b.size {
		end = b.size - 1
	}

	rangeHeader := fmt.Sprintf("bytes=%d-%d", off, end)

	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
		Range:  aws.String(rangeHeader),
	})
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	n, err := io.ReadFull(resp.Body, p)
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		return n, err
	}

	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// ReadRange returns a reader over [off, off+length), clamped to the
// blob size.
func (b *baseBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if off >= b.size {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	end := off + length - 1
	if end >= b.size {
		end = b.size - 1
	}

	rangeHeader := fmt.Sprintf("bytes=%d-%d", off, end)

	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
		Range:  aws.String(rangeHeader),
	})
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// openBlob verifies existence via HeadObject and returns a blob handle
// carrying the object size.
func openBlob(ctx context.Context, client Client, bucket, key string) (*baseBlob, error) {
	head, err := client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, blobstore.ErrNotFound
		}
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}

	return &baseBlob{
		client: client,
		bucket: bucket,
		key:    key,
		size:   *head.ContentLength,
	}, nil
}

// listObjects pages through ListObjectsV2 and returns keys relative to
// rootPrefix, sorted.
func listObjects(ctx context.Context, client Client, bucket, fullPrefix, rootPrefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(fullPrefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, obj := range page.Contents {
			relPath := *obj.Key
			if len(rootPrefix) > 0 {
				if len(relPath) > len(rootPrefix) && relPath[:len(rootPrefix)] == rootPrefix {
					relPath = relPath[len(rootPrefix):]
					if len(relPath) > 0 && relPath[0] == '/' {
						relPath = relPath[1:]
					}
				}
			}
			keys = append(keys, relPath)
		}
	}

	sort.Strings(keys)

	return keys, nil
}

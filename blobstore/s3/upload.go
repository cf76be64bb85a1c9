package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"io"
	"sync"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// UploadConfig configures the S3 uploader.
type UploadConfig struct {
	// PartSize is the part size for multipart uploads.
	// Default: 8MB (larger than the SDK default of 5MB for better throughput)
	PartSize int64

	// Concurrency is the number of concurrent part uploads.
	// Default: 5 (matches SDK default)
	Concurrency int

	// EnableChecksum enables CRC32C integrity validation.
	// Default: true
	EnableChecksum bool

	// LeavePartsOnError controls whether failed multipart uploads
	// are automatically aborted.
	// Default: false (abort on error)
	LeavePartsOnError bool
}

// DefaultUploadConfig returns production-oriented upload settings.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:          8 * 1024 * 1024,
		Concurrency:       5,
		EnableChecksum:    true,
		LeavePartsOnError: false,
	}
}

// newUploader creates a configured S3 uploader.
func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = cfg.PartSize
		u.Concurrency = cfg.Concurrency
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// computeCRC32C returns the CRC32C checksum in the base64 big-endian
// form S3 expects.
func computeCRC32C(data []byte) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], crc32.Checksum(data, crcTable))
	return base64.StdEncoding.EncodeToString(b[:])
}

// streamingWritableBlob streams written bytes into a multipart upload
// running in a background goroutine. The upload finishes when Close is
// called; with LeavePartsOnError unset a failed or aborted upload has
// its parts cleaned up by the uploader.
type streamingWritableBlob struct {
	pw       *io.PipeWriter
	pr       *io.PipeReader
	done     chan error
	closed   atomic.Bool
	closeErr error
	closeMu  sync.Mutex
}

func newStreamingWritableBlob(ctx context.Context, uploader *manager.Uploader, bucket, key string, enableChecksum bool) *streamingWritableBlob {
	pr, pw := io.Pipe()

	blob := &streamingWritableBlob{
		pw:   pw,
		pr:   pr,
		done: make(chan error, 1),
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   pr,
	}

	if enableChecksum {
		input.ChecksumAlgorithm = types.ChecksumAlgorithmCrc32c
	}

	go func() {
		_, err := uploader.Upload(ctx, input)
		_ = pr.CloseWithError(err)
		blob.done <- err
	}()

	return blob
}

func (b *streamingWritableBlob) Write(p []byte) (int, error) {
	if b.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	return b.pw.Write(p)
}

// Close signals EOF to the uploader and waits for the upload to
// complete. The object is only visible after Close returns nil.
func (b *streamingWritableBlob) Close() error {
	b.closeMu.Lock()
	defer b.closeMu.Unlock()

	if !b.closed.CompareAndSwap(false, true) {
		return b.closeErr
	}

	if err := b.pw.Close(); err != nil {
		b.closeErr = err
		return err
	}

	b.closeErr = <-b.done

	return b.closeErr
}

// Abort cancels an in-progress upload. Pending multipart parts are
// removed by the uploader before the background goroutine exits.
func (b *streamingWritableBlob) Abort() error {
	b.closeMu.Lock()
	defer b.closeMu.Unlock()

	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	_ = b.pw.CloseWithError(context.Canceled)
	<-b.done
	b.closeErr = context.Canceled

	return nil
}

// Sync is a no-op: S3 uploads are only committed on Close.
func (b *streamingWritableBlob) Sync() error {
	return nil
}

// putWithChecksum uploads a small blob with CRC32C integrity
// validation in a single request.
func putWithChecksum(ctx context.Context, client Client, bucket, key string, data []byte) error {
	checksum := computeCRC32C(data)

	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:         aws.String(bucket),
		Key:            aws.String(key),
		Body:           bytes.NewReader(data),
		ContentLength:  aws.Int64(int64(len(data))),
		ChecksumCRC32C: aws.String(checksum),
	})

	return err
}

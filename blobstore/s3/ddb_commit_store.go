package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/hupe1980/sparsecdf/blobstore"
)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ErrConcurrentModification is returned when another writer committed
// the same version first.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// CommitStore is a blobstore.Store backed by object storage with
// DynamoDB for atomic commits. It enables safe concurrent writers on
// storage that has no compare-and-swap of its own.
//
// Every Put is staged under a unique object key of the form
// "<name>.v<version>.<nonce>" and then committed with a DynamoDB
// conditional write that claims the next version number. Losing
// writers get ErrConcurrentModification; readers always resolve the
// latest committed version, never a half-written object. Earlier
// versions stay readable through OpenVersion until Delete.
//
// Table schema:
//   - Partition key: blob_uri (string) - the store base URI plus blob name
//   - Sort key: version (number) - monotonically increasing version
//   - Attribute: object_key (string) - the staged object holding the data
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name sparsecdf-commits \
//	  --attribute-definitions AttributeName=blob_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=blob_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	store     blobstore.Store
	ddbClient DDBClient
	tableName string
	baseURI   string
}

// NewCommitStore creates a new commit store over an object store,
// usually *Store. The baseURI should be "s3://bucket/prefix" and
// namespaces the DynamoDB rows.
func NewCommitStore(store blobstore.Store, ddbClient DDBClient, tableName, baseURI string) *CommitStore {
	return &CommitStore{
		store:     store,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   strings.TrimSuffix(baseURI, "/"),
	}
}

func (s *CommitStore) blobURI(name string) string {
	return s.baseURI + "/" + name
}

// stagedKey builds a unique object key for one commit attempt. The
// nonce keeps two writers racing for the same version from clobbering
// each other's staged data.
func stagedKey(name string, version uint64) string {
	return fmt.Sprintf("%s.v%06d.%s", name, version, uuid.NewString())
}

// logicalName strips a staged ".v<version>.<nonce>" suffix, if
// present.
func logicalName(key string) string {
	i := strings.LastIndex(key, ".v")
	if i < 0 || i+2 == len(key) {
		return key
	}

	rest := key[i+2:]
	j := 0
	for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
		j++
	}

	if j == 0 {
		return key
	}

	if j == len(rest) || rest[j] == '.' {
		return key[:i]
	}

	return key
}

// Open opens the latest committed version of a blob.
func (s *CommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	version, objectKey, err := s.latestVersion(ctx, name)
	if err != nil {
		return nil, err
	}

	if version == 0 {
		return nil, blobstore.ErrNotFound
	}

	return s.store.Open(ctx, objectKey)
}

// OpenVersion opens a specific committed version of a blob.
func (s *CommitStore) OpenVersion(ctx context.Context, name string, version uint64) (blobstore.Blob, error) {
	resp, err := s.ddbClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"blob_uri": &types.AttributeValueMemberS{Value: s.blobURI(name)},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get version from DynamoDB: %w", err)
	}

	if resp.Item == nil {
		return nil, blobstore.ErrNotFound
	}

	keyAttr, ok := resp.Item["object_key"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("invalid object_key attribute in DynamoDB")
	}

	return s.store.Open(ctx, keyAttr.Value)
}

// Put stages the data under a versioned object key and atomically
// commits the new version. Returns ErrConcurrentModification when a
// concurrent writer claimed the version first; the caller may retry.
func (s *CommitStore) Put(ctx context.Context, name string, data []byte) error {
	current, _, err := s.latestVersion(ctx, name)
	if err != nil {
		return err
	}

	next := current + 1
	staged := stagedKey(name, next)

	if err := s.store.Put(ctx, staged, data); err != nil {
		return err
	}

	if err := s.commitVersion(ctx, name, next, staged); err != nil {
		// The staged object is unreachable; clean it up best-effort.
		_ = s.store.Delete(ctx, staged)
		return err
	}

	return nil
}

// Create buffers writes and commits them as a new version on Close.
func (s *CommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	return &commitWritableBlob{ctx: ctx, store: s, name: name}, nil
}

// Delete removes all committed versions of a blob and their staged
// objects.
func (s *CommitStore) Delete(ctx context.Context, name string) error {
	items, err := s.queryVersions(ctx, name, true)
	if err != nil {
		return err
	}

	for _, item := range items {
		versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
		if !ok {
			return errors.New("invalid version attribute in DynamoDB")
		}

		if keyAttr, ok := item["object_key"].(*types.AttributeValueMemberS); ok {
			if err := s.store.Delete(ctx, keyAttr.Value); err != nil {
				return err
			}
		}

		_, err := s.ddbClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"blob_uri": &types.AttributeValueMemberS{Value: s.blobURI(name)},
				"version":  versionAttr,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete version from DynamoDB: %w", err)
		}
	}

	return nil
}

// List returns the logical blob names under the prefix, with staged
// version suffixes folded away.
func (s *CommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(keys))
	names := keys[:0]
	for _, key := range keys {
		name := logicalName(key)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}

// Versions returns the committed version numbers of a blob in
// ascending order.
func (s *CommitStore) Versions(ctx context.Context, name string) ([]uint64, error) {
	items, err := s.queryVersions(ctx, name, true)
	if err != nil {
		return nil, err
	}

	versions := make([]uint64, 0, len(items))
	for _, item := range items {
		versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
		if !ok {
			return nil, errors.New("invalid version attribute in DynamoDB")
		}

		v, err := strconv.ParseUint(versionAttr.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse version: %w", err)
		}

		versions = append(versions, v)
	}

	return versions, nil
}

func (s *CommitStore) queryVersions(ctx context.Context, name string, ascending bool) ([]map[string]types.AttributeValue, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("blob_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.blobURI(name)},
		},
		ScanIndexForward: aws.Bool(ascending),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	return resp.Items, nil
}

// latestVersion returns the newest committed version and its object
// key; version 0 means no commit exists.
func (s *CommitStore) latestVersion(ctx context.Context, name string) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("blob_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.blobURI(name)},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB")
	}

	keyAttr, ok := item["object_key"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid object_key attribute in DynamoDB")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	return version, keyAttr.Value, nil
}

// commitVersion claims a version number with a conditional write.
func (s *CommitStore) commitVersion(ctx context.Context, name string, version uint64, objectKey string) error {
	_, err := s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"blob_uri":   &types.AttributeValueMemberS{Value: s.blobURI(name)},
			"version":    &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			"object_key": &types.AttributeValueMemberS{Value: objectKey},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}

	return nil
}

// commitWritableBlob buffers writes in memory and runs the commit
// protocol on Close.
type commitWritableBlob struct {
	ctx   context.Context
	store *CommitStore
	name  string
	buf   bytes.Buffer
}

func (w *commitWritableBlob) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *commitWritableBlob) Sync() error {
	return nil
}

func (w *commitWritableBlob) Close() error {
	return w.store.Put(w.ctx, w.name, w.buf.Bytes())
}

package gateway

import (
	"context"
	"os"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Import drivers for production use
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobStore implements ObjectStore using gocloud.dev/blob.
// This supports GCS, S3, Azure, and other cloud storage providers.
type BlobStore struct {
	bucket *blob.Bucket
}

// NewBlobStore opens the bucket at the given URL, e.g. "gs://bucket-name".
func NewBlobStore(ctx context.Context, bucketURL string) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return &BlobStore{bucket: bucket}, nil
}

// NewBlobStoreFromBucket wraps an existing bucket.
// This is useful for testing with memblob.
func NewBlobStoreFromBucket(bucket *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

func (b *BlobStore) ListPage(ctx context.Context, prefix string, pageToken []byte, pageSize int) ([]Entry, []byte, error) {
	if len(pageToken) == 0 {
		pageToken = blob.FirstPageToken
	}
	objects, nextToken, err := b.bucket.ListPage(ctx, pageToken, pageSize, &blob.ListOptions{
		Prefix: prefix,
	})
	if err != nil {
		return nil, nil, err
	}
	entries := make([]Entry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, Entry{
			Name:    obj.Key,
			IsDir:   obj.IsDir,
			Updated: obj.ModTime,
			Size:    obj.Size,
		})
	}
	return entries, nextToken, nil
}

func (b *BlobStore) Info(ctx context.Context, name string) (ObjectInfo, error) {
	attrs, err := b.bucket.Attributes(ctx, name)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return ObjectInfo{}, os.ErrNotExist
		}
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Name:    name,
		Updated: attrs.ModTime,
		Size:    attrs.Size,
	}, nil
}

func (b *BlobStore) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := b.bucket.ReadAll(ctx, name)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

func (b *BlobStore) Write(ctx context.Context, name string, data []byte, opts *WriteOptions) error {
	var writerOpts *blob.WriterOptions
	if opts != nil {
		writerOpts = &blob.WriterOptions{
			ContentType: opts.ContentType,
			Metadata:    opts.Metadata,
		}
	}
	return b.bucket.WriteAll(ctx, name, data, writerOpts)
}

func (b *BlobStore) Delete(ctx context.Context, name string) (bool, error) {
	err := b.bucket.Delete(ctx, name)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *BlobStore) Close() error {
	return b.bucket.Close()
}

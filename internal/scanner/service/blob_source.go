package service

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
)

// BlobSource scans a gocloud.dev/blob bucket.
type BlobSource struct {
	name   string
	bucket *blob.Bucket
}

// OpenBlobSource opens the bucket at url (file://, mem://, s3://, gs://).
func OpenBlobSource(ctx context.Context, url string) (*BlobSource, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %q: %w", url, err)
	}
	return NewBlobSource(url, bucket), nil
}

// NewBlobSource wraps an open bucket. Close releases it.
func NewBlobSource(name string, bucket *blob.Bucket) *BlobSource {
	return &BlobSource{name: name, bucket: bucket}
}

func (s *BlobSource) Name() string {
	return s.name
}

// List returns every non-directory object in the bucket.
func (s *BlobSource) List(ctx context.Context) ([]scannerDomain.ObjectRef, error) {
	var refs []scannerDomain.ObjectRef

	iter := s.bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %q: %w", s.name, err)
		}
		if obj.IsDir {
			continue
		}
		refs = append(refs, scannerDomain.ObjectRef{Key: obj.Key, Size: obj.Size})
	}

	return refs, nil
}

// Read returns at most limit bytes from the start of the object.
func (s *BlobSource) Read(ctx context.Context, key string, limit int64) ([]byte, error) {
	reader, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open object %q: %w", key, err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(reader, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", key, err)
	}
	return data, nil
}

func (s *BlobSource) Close() error {
	return s.bucket.Close()
}

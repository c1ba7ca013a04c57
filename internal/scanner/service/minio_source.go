package service

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
)

// MinioConfig holds the connection parameters of a MinIO or S3 compatible endpoint.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	// Region skips bucket location lookups when set.
	Region string
}

// NewMinioClient creates a MinIO client. No request is made until a source is used.
func NewMinioClient(cfg MinioConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

// MinioSource scans one MinIO bucket.
type MinioSource struct {
	client *minio.Client
	bucket string
}

// NewMinioSource creates a MinioSource for bucket.
func NewMinioSource(client *minio.Client, bucket string) *MinioSource {
	return &MinioSource{client: client, bucket: bucket}
}

func (s *MinioSource) Name() string {
	return s.bucket
}

// List returns every object in the bucket, recursively.
func (s *MinioSource) List(ctx context.Context) ([]scannerDomain.ObjectRef, error) {
	var refs []scannerDomain.ObjectRef

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %q: %w", s.bucket, obj.Err)
		}
		refs = append(refs, scannerDomain.ObjectRef{Key: obj.Key, Size: obj.Size})
	}

	return refs, nil
}

// Read returns at most limit bytes from the start of the object.
func (s *MinioSource) Read(ctx context.Context, key string, limit int64) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %q: %w", key, err)
	}
	defer func() {
		_ = object.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(object, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", key, err)
	}
	return data, nil
}

package infra

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tnqbao/gau-gallery-service/config"
	"github.com/tnqbao/gau-gallery-service/entity"
)

type MinioClient struct {
	Client   *minio.Client
	Endpoint string
}

func InitMinioClient(cfg *config.EnvConfig) (*MinioClient, error) {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		return nil, fmt.Errorf("MinIO endpoint is not configured")
	}
	if cfg.Minio.RootUser == "" || cfg.Minio.RootPassword == "" {
		return nil, fmt.Errorf("MinIO credentials are not configured")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.RootUser, cfg.Minio.RootPassword, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	return &MinioClient{Client: client, Endpoint: endpoint}, nil
}

// MinioBlobStore stores every blob as an object at the root of one bucket.
type MinioBlobStore struct {
	client *minio.Client
	bucket string
}

func NewMinioBlobStore(ctx context.Context, client *MinioClient, bucket string) (*MinioBlobStore, error) {
	exists, err := client.Client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}
	return &MinioBlobStore{client: client.Client, bucket: bucket}, nil
}

func (s *MinioBlobStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*entity.BlobInfo, error) {
	if !validBlobName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBlobName, name)
	}
	if _, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return nil, fmt.Errorf("failed to put object %s: %w", name, err)
	}

	stat, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to stat object %s: %w", name, err)
	}
	return &entity.BlobInfo{Name: name, Size: stat.Size, CreatedAt: stat.LastModified}, nil
}

func (s *MinioBlobStore) List(ctx context.Context) ([]string, error) {
	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", s.bucket, obj.Err)
		}
		names = append(names, obj.Key)
	}
	return names, nil
}

func (s *MinioBlobStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if !validBlobName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBlobName, name)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioError(name, err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the caller starts reading.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, mapMinioError(name, err)
	}
	return obj, nil
}

func (s *MinioBlobStore) Remove(ctx context.Context, name string) error {
	if !validBlobName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidBlobName, name)
	}
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err != nil {
		return mapMinioError(name, err)
	}
	return s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{})
}

func mapMinioError(name string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%w: %s", ErrBlobNotFound, name)
	}
	return err
}

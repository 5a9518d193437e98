package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient reads and writes objects in MinIO or any S3-compatible store.
type MinIOClient struct {
	client *minio.Client
}

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string // e.g., "localhost:9000"
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// NewMinIOClient creates a new MinIO storage client.
func NewMinIOClient(cfg MinIOConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOClient{client: client}, nil
}

// Get downloads an object.
func (m *MinIOClient) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	// GetObject is lazy: request errors surface on the first read.
	obj, err := m.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, minioError(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, minioError(err)
	}
	return data, nil
}

// Put uploads an object.
func (m *MinIOClient) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to minio: %w", minioError(err))
	}

	return nil
}

// EnsureBucket creates the bucket unless it already exists.
func (m *MinIOClient) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", minioError(err))
	}

	if !exists {
		if err := m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", minioError(err))
		}
	}
	return nil
}

// RemoveObject deletes an object. Removing a missing object is not an error.
func (m *MinIOClient) RemoveObject(ctx context.Context, bucket, key string) error {
	if err := m.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", minioError(err))
	}
	return nil
}

// RemoveBucket deletes an empty bucket.
func (m *MinIOClient) RemoveBucket(ctx context.Context, bucket string) error {
	if err := m.client.RemoveBucket(ctx, bucket); err != nil {
		return fmt.Errorf("failed to remove bucket: %w", minioError(err))
	}
	return nil
}

func minioError(err error) error {
	resp := minio.ToErrorResponse(err)
	return classify(err, resp.Code, resp.StatusCode)
}

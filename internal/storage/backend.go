package storage

import (
	"context"
	"fmt"
)

// Backend reads and writes whole objects.
type Backend interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
}

// Kind selects a Backend implementation.
type Kind string

const (
	KindMinIO Kind = "minio"
	KindS3    Kind = "s3"
	KindAzure Kind = "azure"
)

// Options holds the settings of every backend; only the one named by Kind
// is used.
type Options struct {
	Kind  Kind
	MinIO MinIOConfig
	S3    S3Config
	Azure AzureConfig
}

// Open creates the backend selected by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	var (
		backend Backend
		err     error
	)
	switch opts.Kind {
	case KindMinIO:
		backend, err = NewMinIOClient(opts.MinIO)
	case KindS3:
		backend, err = NewS3Client(ctx, opts.S3)
	case KindAzure:
		backend, err = NewAzureClient(opts.Azure)
	default:
		return nil, fmt.Errorf("unknown object store %q", opts.Kind)
	}
	if err != nil {
		return nil, err
	}
	return backend, nil
}

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/obfuscate"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/storage"
)

// ErrInvalidValue is returned when an environment variable holds a value
// that cannot be used.
var ErrInvalidValue = errors.New("invalid configuration value")

// Config holds application configuration.
type Config struct {
	Storage      storage.Options
	WriteOptions obfuscate.WriteOptions
	Port         string
	LogLevel     slog.Level
}

type ErrMissingRequiredEnvVar struct {
	Name string
}

func (e *ErrMissingRequiredEnvVar) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func requireEnv(key string, dst *string) error {
	*dst = os.Getenv(key)
	if *dst == "" {
		return &ErrMissingRequiredEnvVar{Name: key}
	}
	return nil
}

// Load reads configuration from environment variables.
// Returns an error if variables required by the selected object store are missing.
func Load() (*Config, error) {
	config := Config{
		Port: getEnv("PORT", "8080"),
	}

	if err := config.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("%w: LOG_LEVEL: %w", ErrInvalidValue, err)
	}

	codec, err := obfuscate.ParseCompression(os.Getenv("PARQUET_COMPRESSION"))
	if err != nil {
		return nil, fmt.Errorf("%w: PARQUET_COMPRESSION: %w", ErrInvalidValue, err)
	}
	config.WriteOptions.Compression = codec

	if v := os.Getenv("PARQUET_ROW_GROUP_LENGTH"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: PARQUET_ROW_GROUP_LENGTH must be a positive integer, got %q", ErrInvalidValue, v)
		}
		config.WriteOptions.RowGroupLength = n
	}
	config.WriteOptions.DisableDictionary = os.Getenv("PARQUET_DISABLE_DICTIONARY") == "true"

	if err := loadStorage(&config.Storage); err != nil {
		return nil, err
	}
	return &config, nil
}

func loadStorage(opts *storage.Options) error {
	opts.Kind = storage.Kind(getEnv("OBJECT_STORE", string(storage.KindMinIO)))

	switch opts.Kind {
	case storage.KindMinIO:
		if err := requireEnv("MINIO_ENDPOINT", &opts.MinIO.Endpoint); err != nil {
			return err
		}
		if err := requireEnv("MINIO_ACCESS_KEY", &opts.MinIO.AccessKey); err != nil {
			return err
		}
		if err := requireEnv("MINIO_SECRET_KEY", &opts.MinIO.SecretKey); err != nil {
			return err
		}
		opts.MinIO.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"
	case storage.KindS3:
		if err := requireEnv("AWS_REGION", &opts.S3.Region); err != nil {
			return err
		}
		opts.S3.Endpoint = os.Getenv("AWS_ENDPOINT_URL")
		opts.S3.AccessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		opts.S3.SecretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
		opts.S3.UsePathStyle = os.Getenv("AWS_S3_USE_PATH_STYLE") == "true"
	case storage.KindAzure:
		if err := requireEnv("AZURE_STORAGE_ACCOUNT", &opts.Azure.Account); err != nil {
			return err
		}
		if err := requireEnv("AZURE_STORAGE_KEY", &opts.Azure.Key); err != nil {
			return err
		}
		opts.Azure.Endpoint = os.Getenv("AZURE_STORAGE_ENDPOINT")
	default:
		return fmt.Errorf("%w: OBJECT_STORE %q (want minio, s3 or azure)", ErrInvalidValue, opts.Kind)
	}
	return nil
}

package exitcode

import (
	"errors"

	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/config"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/model"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/storage"
)

// Exit codes for the obfuscator CLI.
// Orchestrators can use these to decide retry strategy.
const (
	// Success - file obfuscated
	Success = 0

	// ConfigError - missing or invalid configuration
	// Don't retry: fix the config first
	ConfigError = 1

	// NetworkError - transient object store failure (timeout, throttling, 5xx)
	// Retry the whole invocation with backoff
	NetworkError = 2

	// RequestError - malformed request or unsupported file type
	// Don't retry: fix the request
	RequestError = 3

	// StorageError - object or bucket missing, or access denied
	// Don't retry: check the location and permissions
	StorageError = 4

	// DataError - the file could not be decoded or re-encoded
	// Don't retry: investigate the data
	DataError = 5
)

// For maps an application error to its exit code.
func For(err error) int {
	var missing *config.ErrMissingRequiredEnvVar
	switch {
	case err == nil:
		return Success
	case errors.As(err, &missing), errors.Is(err, config.ErrInvalidValue):
		return ConfigError
	case errors.Is(err, model.ErrMalformedRequest), errors.Is(err, model.ErrUnsupportedDataType):
		return RequestError
	case storage.IsRetryable(err):
		return NetworkError
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrNoSuchBucket), errors.Is(err, storage.ErrForbidden):
		return StorageError
	default:
		return DataError
	}
}

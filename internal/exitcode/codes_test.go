package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/config"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/model"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/storage"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: Success},
		{name: "missing env", err: fmt.Errorf("load: %w", &config.ErrMissingRequiredEnvVar{Name: "MINIO_ENDPOINT"}), want: ConfigError},
		{name: "invalid env", err: config.ErrInvalidValue, want: ConfigError},
		{name: "malformed request", err: model.ErrMalformedRequest, want: RequestError},
		{name: "unsupported type", err: fmt.Errorf("x: %w", model.ErrUnsupportedDataType), want: RequestError},
		{name: "transient", err: fmt.Errorf("%w: timeout", storage.ErrTransient), want: NetworkError},
		{name: "not found", err: fmt.Errorf("%w: NoSuchKey", storage.ErrNotFound), want: StorageError},
		{name: "no bucket", err: storage.ErrNoSuchBucket, want: StorageError},
		{name: "forbidden", err: storage.ErrForbidden, want: StorageError},
		{name: "other", err: errors.New("read parquet: bad magic"), want: DataError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := For(tt.err); got != tt.want {
				t.Errorf("For(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

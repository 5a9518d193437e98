package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Retrieval failures. Backends join one of these with the native error, so
// callers can use errors.Is and still see what the store reported.
var (
	ErrNotFound     = errors.New("object not found")
	ErrNoSuchBucket = errors.New("bucket not found")
	ErrForbidden    = errors.New("access denied")
	ErrTransient    = errors.New("transient storage failure")
)

// IsRetryable reports whether a failed call may succeed when repeated.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

// classify attaches a retrieval failure to err from the store's error code,
// falling back to the HTTP status. A zero status with no code means the
// request never got an answer.
func classify(err error, code string, status int) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var sentinel error
	switch code {
	case "NoSuchKey", "NotFound", "BlobNotFound":
		sentinel = ErrNotFound
	case "NoSuchBucket", "ContainerNotFound":
		sentinel = ErrNoSuchBucket
	case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch",
		"AuthorizationFailure", "AuthenticationFailed", "InsufficientAccountPermissions",
		"AuthorizationPermissionMismatch":
		sentinel = ErrForbidden
	case "SlowDown", "InternalError", "ServiceUnavailable", "RequestTimeout", "ServerBusy", "OperationTimedOut":
		sentinel = ErrTransient
	}

	if sentinel == nil {
		switch {
		case status == http.StatusNotFound:
			sentinel = ErrNotFound
		case status == http.StatusForbidden || status == http.StatusUnauthorized:
			sentinel = ErrForbidden
		case status == 0 && code == "",
			status == http.StatusTooManyRequests,
			status == http.StatusRequestTimeout,
			status >= http.StatusInternalServerError:
			sentinel = ErrTransient
		default:
			return err
		}
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

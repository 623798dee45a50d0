package model

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrExists is returned when a record with the same identity already exists.
	ErrExists = errors.New("already exists")
	// ErrValidation is returned when input is rejected before any storage operation.
	ErrValidation = errors.New("validation failed")
	// ErrIndexUnavailable is returned by the search index when it cannot serve a request.
	// Callers recover from it by falling back to the primary store.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrCanceled is returned when the operation is canceled by the caller.
	ErrCanceled = errors.New("operation canceled")
)

// Validationf builds an error that matches errors.Is(err, ErrValidation).
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether the error means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// WrapError converts context cancellation and deadline errors to ErrCanceled,
// leaving all other errors untouched.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsCanceled(err) {
		return ErrCanceled
	}
	return err
}

// IsCanceled returns true if the error is due to context cancellation or
// deadline exceeded. It checks both direct context errors and wrapped errors
// (e.g., from the MongoDB driver).
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrCanceled) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "context canceled") || strings.Contains(errStr, "context deadline exceeded")
}

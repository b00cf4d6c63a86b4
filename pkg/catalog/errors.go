package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations.
var (
	// ErrBucketNotFound indicates the bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrUnavailable indicates the underlying catalog could not be reached.
	// Retry policy belongs to the catalog layer; callers propagate this as-is.
	ErrUnavailable = errors.New("catalog unavailable")
)

// CatalogError wraps backend-specific errors with context.
type CatalogError struct {
	// Op is the operation that failed (e.g., "ListKeys", "CountDirect").
	Op string

	// Backend is the backend type (e.g., "postgres").
	Backend BackendType

	// Bucket is the bucket name, if applicable.
	Bucket string

	// Path is the key or folder path, if applicable.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %s/%s: %v", e.Backend, e.Op, e.Bucket, e.Path, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Backend, e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// IsBucketNotFound returns true if the error indicates the bucket does not exist.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsUnavailable returns true if the error indicates the catalog could not be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

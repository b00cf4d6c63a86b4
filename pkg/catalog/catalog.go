// Package catalog defines the query capability consumed by the folder engine.
//
// A catalog backend answers four read-only questions about a bucket's flat
// key namespace: does the bucket exist, what keys does it hold under a
// prefix, how many objects sit directly under a folder path, and how many
// immediate subfolders does a folder path have. Backends should not
// implement any folder semantics themselves - folder derivation belongs to
// pkg/folder.
package catalog

import "context"

// Catalog abstracts the object catalog of one store.
//
// Implementations should:
//   - Treat keys as opaque slash-delimited strings (no path cleaning)
//   - Return keys in byte-wise lexicographic order from ListKeys
//   - Be safe for concurrent use
type Catalog interface {
	// BucketExists reports whether the named bucket exists.
	BucketExists(ctx context.Context, bucket string) (bool, error)

	// ListKeys returns all keys in the bucket that start with prefix,
	// in lexicographic order. An empty prefix lists the whole bucket.
	ListKeys(ctx context.Context, bucket, prefix string) ([]KeyInfo, error)

	// CountDirect returns the number and byte-sum of objects directly
	// under folderPath (keys that start with folderPath and contain no
	// further slash after it). Objects with unknown size count as zero
	// bytes.
	CountDirect(ctx context.Context, bucket, folderPath string) (DirectCounts, error)

	// CountImmediateSubfolders returns the number of distinct immediate
	// child folders under folderPath.
	CountImmediateSubfolders(ctx context.Context, bucket, folderPath string) (int64, error)

	// Close releases any resources held by the catalog.
	Close() error
}

// KeyInfo is one catalog row: a flat key plus optional size metadata.
type KeyInfo struct {
	// Key is the full slash-delimited object key.
	Key string

	// SizeBytes is the object size, or nil when the catalog has no size
	// metadata for the row.
	SizeBytes *int64
}

// Size returns the object size, treating missing metadata as zero.
func (k KeyInfo) Size() int64 {
	if k.SizeBytes == nil {
		return 0
	}
	return *k.SizeBytes
}

// DirectCounts holds the direct-member aggregates for one folder path.
type DirectCounts struct {
	// FileCount is the number of objects directly under the path.
	FileCount int64

	// TotalSize is the byte-sum of those objects.
	TotalSize int64
}

// BucketLister is an optional capability for backends that can enumerate
// buckets with aggregate statistics. The bucket admin surface uses it; the
// folder engine itself never needs it.
type BucketLister interface {
	// ListBuckets returns all buckets with object counts and byte totals,
	// sorted by name.
	ListBuckets(ctx context.Context) ([]BucketSummary, error)
}

// BucketSummary is one bucket row with whole-bucket aggregates.
type BucketSummary struct {
	// Name is the bucket name.
	Name string

	// ObjectCount is the number of objects in the bucket.
	ObjectCount int64

	// TotalSize is the byte-sum of the bucket's objects, with missing
	// size metadata counted as zero.
	TotalSize int64
}

// BackendType identifies a catalog backend.
type BackendType string

const (
	// BackendPostgres represents the Postgres object catalog.
	BackendPostgres BackendType = "postgres"

	// BackendS3 represents an S3-compatible object store.
	BackendS3 BackendType = "s3"

	// BackendMemory represents the in-memory catalog used for tests and demos.
	BackendMemory BackendType = "memory"
)

// String returns the string representation of the backend type.
func (b BackendType) String() string {
	return string(b)
}

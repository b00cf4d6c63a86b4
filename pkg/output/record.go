// Package output provides JSONL output for folder listings.
//
// Output is structured as typed record envelopes containing folders,
// errors, and summaries. Each line is a self-contained JSON object that
// can be parsed independently.
package output

import (
	"encoding/json"
	"errors"
	"time"
)

// Record type constants define the envelope types for JSONL output.
// These follow the pattern: shelfctl.<type>.v<version>
const (
	// TypeFolder identifies folder stat records.
	TypeFolder = "shelfctl.folder.v1"

	// TypeBucket identifies bucket summary records.
	TypeBucket = "shelfctl.bucket.v1"

	// TypeError identifies error records.
	TypeError = "shelfctl.error.v1"

	// TypeSummary identifies final summary records.
	TypeSummary = "shelfctl.summary.v1"
)

// Record is the envelope for all JSONL output.
//
// Each line of JSONL output contains a Record with a type-specific payload
// in the Data field.
type Record struct {
	// Type identifies the record type (e.g., "shelfctl.folder.v1").
	Type string `json:"type"`

	// TS is the timestamp when the record was created (RFC3339Nano).
	TS time.Time `json:"ts"`

	// JobID is the correlation ID for this invocation.
	JobID string `json:"job_id"`

	// Backend identifies the catalog backend (e.g., "postgres", "s3").
	Backend string `json:"backend"`

	// Data contains the type-specific payload as raw JSON.
	Data json.RawMessage `json:"data"`
}

// FolderRecord is the data payload for one derived folder.
type FolderRecord struct {
	// Bucket is the bucket the folder was derived from.
	Bucket string `json:"bucket"`

	// Path is the folder path, always ending in "/".
	Path string `json:"path"`

	// FileCount is the number of objects directly under Path.
	FileCount int64 `json:"file_count"`

	// SubfolderCount is the number of immediate child folders.
	SubfolderCount int64 `json:"subfolder_count"`

	// TotalSize is the byte-sum of the direct objects.
	TotalSize int64 `json:"total_size"`

	// HumanReadableSize is TotalSize rendered for humans.
	HumanReadableSize string `json:"human_readable_size"`
}

// BucketRecord is the data payload for one bucket summary.
type BucketRecord struct {
	// Name is the bucket name.
	Name string `json:"name"`

	// ObjectCount is the number of objects in the bucket.
	ObjectCount int64 `json:"object_count"`

	// TotalSize is the byte-sum of the bucket's objects.
	TotalSize int64 `json:"total_size"`

	// HumanReadableSize is TotalSize rendered for humans.
	HumanReadableSize string `json:"human_readable_size"`
}

// ErrorRecord is the data payload for errors.
type ErrorRecord struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error description.
	Message string `json:"message"`

	// Bucket is the bucket related to this error, if applicable.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the prefix being listed when the error occurred.
	Prefix string `json:"prefix,omitempty"`

	// Details contains additional error context.
	Details any `json:"details,omitempty"`
}

// Error codes for ErrorRecord.
const (
	// ErrCodeNotFound indicates the bucket was not found.
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeInvalidPrefix indicates a prefix the shallow rule cannot interpret.
	ErrCodeInvalidPrefix = "INVALID_PREFIX"

	// ErrCodeUnavailable indicates the catalog could not be reached.
	ErrCodeUnavailable = "CATALOG_UNAVAILABLE"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal = "INTERNAL"
)

// SummaryRecord is the data payload for final summaries.
type SummaryRecord struct {
	// Bucket is the bucket that was listed.
	Bucket string `json:"bucket"`

	// Prefix is the caller-supplied scope.
	Prefix string `json:"prefix,omitempty"`

	// Folders is the number of folders emitted.
	Folders int64 `json:"folders"`

	// Files is the total direct file count across emitted folders.
	Files int64 `json:"files"`

	// BytesTotal is the total direct byte footprint across emitted folders.
	BytesTotal int64 `json:"bytes_total"`

	// Duration is the total listing duration.
	Duration time.Duration `json:"duration_ns"`

	// DurationHuman is a human-readable duration string.
	DurationHuman string `json:"duration"`
}

// Writer errors.
var (
	// ErrWriterClosed is returned when writing to a closed writer.
	ErrWriterClosed = errors.New("writer is closed")
)

// WriteError wraps errors that occur during write operations.
type WriteError struct {
	Op  string // Operation that failed (e.g., "marshal_data", "write")
	Err error  // Underlying error
}

func (e *WriteError) Error() string {
	return "output: " + e.Op + ": " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

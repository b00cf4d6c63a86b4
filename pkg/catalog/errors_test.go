package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogErrorMessage(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name string
		err  *CatalogError
		want string
	}{
		{
			name: "with path",
			err:  &CatalogError{Op: "CountDirect", Backend: BackendPostgres, Bucket: "docs", Path: "a/", Err: base},
			want: "postgres CountDirect: docs/a/: boom",
		},
		{
			name: "bucket only",
			err:  &CatalogError{Op: "ListKeys", Backend: BackendS3, Bucket: "docs", Err: base},
			want: "s3 ListKeys: docs: boom",
		},
		{
			name: "op only",
			err:  &CatalogError{Op: "ListBuckets", Backend: BackendMemory, Err: base},
			want: "memory ListBuckets: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorClassification(t *testing.T) {
	notFound := &CatalogError{Op: "ListKeys", Backend: BackendMemory, Bucket: "x", Err: ErrBucketNotFound}
	assert.True(t, IsBucketNotFound(notFound))
	assert.False(t, IsUnavailable(notFound))

	// Classification survives a further wrapping layer.
	unavail := fmt.Errorf("query stats: %w", &CatalogError{Op: "CountDirect", Backend: BackendPostgres, Err: ErrUnavailable})
	assert.True(t, IsUnavailable(unavail))
	assert.False(t, IsBucketNotFound(unavail))

	assert.False(t, IsBucketNotFound(errors.New("other")))
	assert.False(t, IsBucketNotFound(nil))
}

package s3

import (
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/shelfctl/pkg/catalog"
)

func TestWrapError(t *testing.T) {
	c := &Catalog{}

	tests := []struct {
		name         string
		err          error
		wantNotFound bool
		wantUnavail  bool
	}{
		{
			name:         "typed NoSuchBucket",
			err:          &types.NoSuchBucket{},
			wantNotFound: true,
		},
		{
			name:         "typed NotFound",
			err:          &types.NotFound{},
			wantNotFound: true,
		},
		{
			name:         "api error NoSuchBucket",
			err:          &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "no such bucket"},
			wantNotFound: true,
		},
		{
			name:        "api error SlowDown",
			err:         &smithy.GenericAPIError{Code: "SlowDown", Message: "slow down"},
			wantUnavail: true,
		},
		{
			name:        "api error ServiceUnavailable",
			err:         &smithy.GenericAPIError{Code: "ServiceUnavailable", Message: "unavailable"},
			wantUnavail: true,
		},
		{
			name:         "message fallback 404",
			err:          errors.New("operation failed with 404"),
			wantNotFound: true,
		},
		{
			name:        "message fallback 503",
			err:         errors.New("operation failed with 503"),
			wantUnavail: true,
		},
		{
			name: "unclassified error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := c.wrapError("ListKeys", "docs", "a/", tt.err)
			require.Error(t, wrapped)

			var catErr *catalog.CatalogError
			require.ErrorAs(t, wrapped, &catErr)
			assert.Equal(t, "ListKeys", catErr.Op)
			assert.Equal(t, catalog.BackendS3, catErr.Backend)
			assert.Equal(t, "docs", catErr.Bucket)

			assert.Equal(t, tt.wantNotFound, catalog.IsBucketNotFound(wrapped))
			assert.Equal(t, tt.wantUnavail, catalog.IsUnavailable(wrapped))
		})
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/shelfctl/internal/server/middleware"
	"github.com/openshelf/shelfctl/pkg/catalog"
	"github.com/openshelf/shelfctl/pkg/folder"
)

func TestSetHTTPErrorResponder(t *testing.T) {
	original := httpErrorResponder
	defer func() { httpErrorResponder = original }()

	t.Run("sets custom responder", func(t *testing.T) {
		called := false
		SetHTTPErrorResponder(func(w http.ResponseWriter, r *http.Request, err error) {
			called = true
			w.WriteHeader(http.StatusTeapot)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		rec := httptest.NewRecorder()
		respondWithError(rec, req, assert.AnError)

		assert.True(t, called)
		assert.Equal(t, http.StatusTeapot, rec.Code)
	})

	t.Run("nil resets to default", func(t *testing.T) {
		SetHTTPErrorResponder(func(w http.ResponseWriter, r *http.Request, err error) {
			w.WriteHeader(http.StatusTeapot)
		})

		SetHTTPErrorResponder(nil)
		assert.NotNil(t, httpErrorResponder)
	})
}

func TestResetHTTPErrorResponder(t *testing.T) {
	original := httpErrorResponder
	defer func() { httpErrorResponder = original }()

	customCalled := false
	SetHTTPErrorResponder(func(w http.ResponseWriter, r *http.Request, err error) {
		customCalled = true
	})

	ResetHTTPErrorResponder()

	assert.False(t, customCalled)
	assert.NotNil(t, httpErrorResponder)
}

func TestDefaultErrorResponder(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bucket not found",
			err:        &catalog.CatalogError{Op: "ListFolders", Bucket: "missing", Err: catalog.ErrBucketNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "prefix not on boundary",
			err:        fmt.Errorf("list folders: %w", folder.ErrPrefixNotBoundary),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_PREFIX",
		},
		{
			name:       "catalog unavailable",
			err:        &catalog.CatalogError{Op: "CountDirect", Err: catalog.ErrUnavailable},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "CATALOG_UNAVAILABLE",
		},
		{
			name:       "unclassified error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			rec := httptest.NewRecorder()

			defaultErrorResponder(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

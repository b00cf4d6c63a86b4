package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/shelfctl/internal/server/handlers"
	"github.com/openshelf/shelfctl/internal/server/middleware"
	"github.com/openshelf/shelfctl/pkg/catalog/memory"
	"github.com/openshelf/shelfctl/pkg/folder"
)

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := New("127.0.0.1", 0)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.NotEmpty(t, body.Error.RequestID)
}

func TestServer_Port(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"default port", 8080},
		{"custom port", 9000},
		{"zero port", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New("127.0.0.1", tt.port)
			assert.Equal(t, tt.port, srv.Port())
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv := New("127.0.0.1", 0)

	// POST to a GET-only endpoint should return 405
	req := httptest.NewRequest(http.MethodPost, "/version", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "METHOD_NOT_ALLOWED", body.Error.Code)
}

func TestServer_RoutesRegistered(t *testing.T) {
	handlers.InitHealthManager("test")

	srv := New("127.0.0.1", 0)

	endpoints := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/health/live", http.StatusOK},
		{"GET", "/health/ready", http.StatusOK},
		{"GET", "/health/startup", http.StatusOK},
		{"GET", "/version", http.StatusOK},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			req := httptest.NewRequest(ep.method, ep.path, nil)
			rec := httptest.NewRecorder()

			srv.Handler().ServeHTTP(rec, req)

			assert.Equal(t, ep.want, rec.Code, "endpoint %s %s should return %d", ep.method, ep.path, ep.want)
		})
	}
}

func TestServer_Version(t *testing.T) {
	srv := New("127.0.0.1", 0)
	srv.SetVersion("1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "1.2.3", body["version"])
}

func TestServer_FoldersEndpoint(t *testing.T) {
	cat := memory.New()
	cat.CreateBucket("docs")
	size := func(v int64) *int64 { return &v }
	cat.PutKey("docs", "a/b.txt", size(100))
	cat.PutKey("docs", "a/c/d.txt", size(200))
	cat.PutKey("docs", "e.txt", size(50))

	srv := New("127.0.0.1", 0)
	srv.MountFolders(folder.NewService(cat, folder.Options{Parallel: 2}))

	t.Run("full listing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/buckets/docs/folders", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var listing folder.Listing
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&listing))
		assert.Equal(t, "docs", listing.Bucket)
		require.Equal(t, 2, listing.Count)
		assert.Equal(t, "a/", listing.Folders[0].Path)
		assert.Equal(t, "a/c/", listing.Folders[1].Path)
	})

	t.Run("unknown bucket", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/buckets/missing/folders", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)

		var body middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})

	t.Run("invalid shallow prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/buckets/docs/folders?prefix=a&subfolders=false", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "INVALID_PREFIX", body.Error.Code)
	})

	t.Run("invalid subfolders value", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/buckets/docs/folders?subfolders=maybe", nil)
		rec := httptest.NewRecorder()

		srv.Handler().ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body middleware.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "INVALID_ARGUMENT", body.Error.Code)
	})
}

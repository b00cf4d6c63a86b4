package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openshelf/shelfctl/internal/observability"
	"github.com/openshelf/shelfctl/internal/server/middleware"
	"github.com/openshelf/shelfctl/pkg/folder"
)

// Folders returns the handler for GET /v1/buckets/{bucket}/folders.
//
// Query parameters:
//   - prefix: scope derivation to keys starting with this value (accepted literally)
//   - subfolders: "false" prunes the result to one tree level (default "true")
func Folders(svc *folder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bucket := chi.URLParam(r, "bucket")
		prefix := r.URL.Query().Get("prefix")

		includeSubfolders := true
		if raw := r.URL.Query().Get("subfolders"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				middleware.WriteJSONError(w, r, http.StatusBadRequest, "INVALID_ARGUMENT", "subfolders must be a boolean")
				return
			}
			includeSubfolders = parsed
		}

		listing, err := svc.ListFolders(r.Context(), bucket, prefix, includeSubfolders)
		if err != nil {
			observability.ServerLogger.Warn("Folder listing failed",
				zap.String("bucket", bucket),
				zap.String("prefix", prefix),
				zap.Error(err),
			)
			respondWithError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(listing); err != nil {
			observability.ServerLogger.Error("Failed to encode listing", zap.Error(err))
		}
	}
}

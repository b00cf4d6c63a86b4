// Package handlers implements the admin server's HTTP handlers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/openshelf/shelfctl/internal/server/middleware"
	"github.com/openshelf/shelfctl/pkg/catalog"
	"github.com/openshelf/shelfctl/pkg/folder"
)

// ErrorResponder maps an error to an HTTP response.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

// httpErrorResponder is the active responder. Tests may swap it out.
var httpErrorResponder ErrorResponder = defaultErrorResponder

// SetHTTPErrorResponder replaces the active error responder.
// Passing nil resets to the default.
func SetHTTPErrorResponder(responder ErrorResponder) {
	if responder == nil {
		httpErrorResponder = defaultErrorResponder
		return
	}
	httpErrorResponder = responder
}

// ResetHTTPErrorResponder restores the default error responder.
func ResetHTTPErrorResponder() {
	httpErrorResponder = defaultErrorResponder
}

// respondWithError delegates to the active responder.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	httpErrorResponder(w, r, err)
}

// defaultErrorResponder maps domain errors to the JSON error envelope.
//
// The listing is all-or-nothing, so every error path here terminates the
// request; no partial folder list is ever written.
func defaultErrorResponder(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case catalog.IsBucketNotFound(err):
		middleware.WriteJSONError(w, r, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, folder.ErrPrefixNotBoundary):
		middleware.WriteJSONError(w, r, http.StatusBadRequest, "INVALID_PREFIX", err.Error())
	case catalog.IsUnavailable(err):
		middleware.WriteJSONError(w, r, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", err.Error())
	default:
		middleware.WriteJSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

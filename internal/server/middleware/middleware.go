// Package middleware provides the HTTP middleware chain for the admin server.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openshelf/shelfctl/internal/observability"
)

type contextKey string

// requestIDKey carries the request ID through the request context.
const requestIDKey contextKey = "request_id"

// RequestIDHeader is the header carrying the client-supplied request ID.
const RequestIDHeader = "X-Request-ID"

// ErrorResponse is the JSON error envelope for all error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the payload of an ErrorResponse.
type ErrorBody struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND").
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// RequestID correlates the response with server logs, when known.
	RequestID string `json:"request_id,omitempty"`
}

// RequestID assigns each request an ID, honoring a client-supplied
// X-Request-ID header, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID from ctx, or "" when absent.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Recovery converts panics into 500 responses with the standard JSON
// error envelope instead of tearing down the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			observability.ServerLogger.Error("Handler panic",
				zap.Any("panic", rec),
				zap.String("path", r.URL.Path),
				zap.String("request_id", GetRequestID(r.Context())),
			)

			WriteJSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", fmt.Sprintf("panic: %v", rec))
		}()

		next.ServeHTTP(w, r)
	})
}

// ErrorHandler is an alias for Recovery kept for middleware-chain readability.
func ErrorHandler(next http.Handler) http.Handler {
	return Recovery(next)
}

// WriteJSONError writes the standard error envelope with the given status.
func WriteJSONError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: GetRequestID(r.Context()),
	}}
	_ = json.NewEncoder(w).Encode(resp)
}

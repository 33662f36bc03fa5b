// Package middleware provides HTTP middleware shared by the API routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

const (
	userKeyKey   ContextKey = "userKey"
	requestIDKey ContextKey = "requestID"
)

// UserKeyHeader carries the caller identity set by the upstream auth layer.
const UserKeyHeader = "X-User-Key"

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

// RequireUserKey rejects requests without a user key header and stores the key in the request context.
func RequireUserKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(UserKeyHeader))
		if key == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"missing ` + UserKeyHeader + ` header"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKeyKey, key)))
	})
}

// UserKey returns the user key stored by RequireUserKey, or "".
func UserKey(r *http.Request) string {
	key, _ := r.Context().Value(userKeyKey).(string)
	return key
}

// RequestID reuses an inbound X-Request-ID or assigns a new UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// GetRequestID returns the request id stored by RequestID, or "".
func GetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

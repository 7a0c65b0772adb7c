// Package middleware holds the net/http middleware wrapped around the
// router. Each one has the shape func(http.Handler) http.Handler.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"

	// Longer incoming ids are replaced to keep them out of the logs.
	requestIDMaxLen = 64
)

type ctxKey struct{}

// RequestID reuses the client's X-Request-ID or generates a UUID, stores
// it in the request context and echoes it in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		w.Header().Set(HeaderRequestID, rid)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, rid)))
	})
}

// GetRequestID returns the id stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	rid, _ := ctx.Value(ctxKey{}).(string)
	return rid
}

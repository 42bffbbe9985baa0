package middleware

import (
	"net/http"

	"github.com/hunterapp/hunterd/internal/api"
)

// MaxBodyBytes caps request payloads at limit bytes. Oversized declared
// bodies are rejected up front; chunked uploads are cut off by
// http.MaxBytesReader once the handler reads past the limit. A limit of
// zero disables the cap.
func MaxBodyBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}

			next.ServeHTTP(w, r)
		})
	}
}

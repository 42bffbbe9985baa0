package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/hunterapp/hunterd/internal/api"
)

// AdminKeyAuth guards the moderation endpoints with a shared key carried in
// the X-Admin-Key header. An empty configured key disables the admin surface
// entirely.
func AdminKeyAuth(adminKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminKey == "" {
				api.Error(w, http.StatusNotFound, "admin surface disabled")
				return
			}

			provided := r.Header.Get("X-Admin-Key")
			if provided == "" {
				api.Error(w, http.StatusUnauthorized, "missing admin key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(adminKey)) != 1 {
				api.Error(w, http.StatusUnauthorized, "invalid admin key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

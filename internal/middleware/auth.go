// Package middleware provides HTTP middleware for the decoy API.
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKey returns middleware that requires a matching x-api-key header on
// every request. The comparison is constant-time; callers probing for the
// key get no timing signal.
func APIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get("x-api-key")
			if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error": "invalid api key"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package auth guards the write surface of the proof service. Issuance spends
// real funds, so operators can require a shared API key on those routes.
package auth

import (
	"crypto/subtle"
	"net/http"
)

// HeaderAPIKey is the request header carrying the operator API key.
const HeaderAPIKey = "X-API-Key"

// RequireAPIKey wraps next with an API key check. An empty configured key
// disables the check entirely, which is the default for local development
// instances.
func RequireAPIKey(key string, next http.Handler) http.Handler {
	if key == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		supplied := r.Header.Get(HeaderAPIKey)
		if supplied == "" {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"Unauthorized","message":"API key required"}`, http.StatusUnauthorized)
			return
		}
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"Unauthorized","message":"invalid API key"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireAPIKey(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name           string
		configuredKey  string
		suppliedKey    string
		expectedStatus int
	}{
		{"no key configured passes through", "", "", http.StatusNoContent},
		{"no key configured ignores supplied key", "", "whatever", http.StatusNoContent},
		{"matching key", "s3cret", "s3cret", http.StatusNoContent},
		{"missing key", "s3cret", "", http.StatusUnauthorized},
		{"wrong key", "s3cret", "guess", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/proofs", nil)
			if tt.suppliedKey != "" {
				req.Header.Set(HeaderAPIKey, tt.suppliedKey)
			}
			w := httptest.NewRecorder()

			RequireAPIKey(tt.configuredKey, next).ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

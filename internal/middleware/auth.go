package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// BearerAuth rejects requests whose Authorization header does not carry the
// configured bearer token.
func BearerAuth(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, credentials, found := strings.Cut(r.Header.Get("Authorization"), " ")
		if !found || scheme != "Bearer" || credentials != token {
			writeUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    "UNAUTHORIZED",
			"message": "Invalid or missing authentication token",
		},
		"correlationId": GetCorrelationID(r.Context()),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

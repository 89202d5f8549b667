package middleware

import (
	"net/http"

	"github.com/dmelojr/Diagnos/internal/utils"
)

// CORS enables cross-origin resource sharing for all routes. The allowed
// origin comes from DIAGNOS_CORS_ORIGIN and defaults to the wildcard, which
// is fine because authentication uses bearer tokens, not cookies.
// It allows Authorization and common headers, and handles OPTIONS preflight.
func CORS(next http.Handler) http.Handler {
	origin := utils.SafeEnv("DIAGNOS_CORS_ORIGIN", "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		if r.Method == http.MethodOptions {
			// Preflight request: reply with 204 No Content
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

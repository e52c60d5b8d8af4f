package middleware

import (
	"net/http"
	"strings"

	"bemyeyes/internal/config"
)

// CORS applies the configured cross-origin policy and short-circuits
// preflight requests.
func CORS(cfg *config.Config) func(http.Handler) http.Handler {
	origins := strings.Join(cfg.CORSOrigins, ", ")
	methods := strings.Join(cfg.CORSMethods, ", ")
	headers := strings.Join(cfg.CORSHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origins)
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)
			if cfg.CORSCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

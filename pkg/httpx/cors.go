package httpx

import (
	"net/http"
	"strings"
)

type CORSConfig struct {
	AllowOrigin  string
	AllowHeaders []string
	AllowMethods []string

	// Preflight answers OPTIONS requests. It runs before anything further
	// down the chain, authentication included.
	Preflight http.Handler
}

// CORS sets the configured Access-Control headers on every response and
// short-circuits preflight requests.
func CORS(cfg CORSConfig) Middleware {
	headers := strings.Join(cfg.AllowHeaders, ",")
	methods := strings.Join(cfg.AllowMethods, ",")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", cfg.AllowOrigin)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Allow-Methods", methods)

			if r.Method == http.MethodOptions && cfg.Preflight != nil {
				cfg.Preflight.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

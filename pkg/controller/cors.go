package controller

import (
	"net/http"

	"github.com/go-chi/cors"
)

// WithCORS returns a middleware allowing browser clients served from origins
// to call the API. "*" allows any origin. Preflight requests are answered
// directly.
func WithCORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the site and dashboard origins to call the API with cookies.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", AdminKeyHeader, RequestIDHeader},
		ExposedHeaders:   []string{"Retry-After", RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

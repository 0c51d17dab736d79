package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the given origins to issue read requests against the API.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Total-Count", "Content-Disposition"},
	})
	return c.Handler
}

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// The wheel frontend is served from a separate origin, so the public spin
// endpoints must answer preflight requests.
var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"http://localhost:5173", // vite dev server
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS(extraOrigins ...string) func(http.Handler) http.Handler {
	origins := append([]string{}, defaultCORSOrigins...)
	origins = append(origins, extraOrigins...)
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

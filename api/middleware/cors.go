package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"http://localhost:5173", // vite dev server
	"https://incubez-talent-stories-4eyw.onrender.com",
	"https://www.incubez.in",
	"https://incubez.in",
	"http://www.incubez.in",
	"http://incubez.in",
}

// CORS returns middleware that applies the platform's allowed origin
// policy. The configured client URL is appended so preview deployments
// work without a code change.
func CORS(clientURL string) func(http.Handler) http.Handler {
	origins := defaultCORSOrigins
	if clientURL != "" {
		origins = append(append([]string{}, defaultCORSOrigins...), clientURL)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

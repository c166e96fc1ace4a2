package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://grambazaar.in",
	"https://www.grambazaar.in",
}

// CORS applies the storefront's allowed origin policy. An empty origins list
// falls back to the defaults. Retry-After and the replay marker are exposed so
// the web client can back off and detect idempotent replays.
func CORS(origins ...string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After", replayHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

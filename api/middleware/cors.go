package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS applies the configured origin policy. Credentials are allowed and any
// method or header is accepted. An empty origin list admits no origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		if o := strings.TrimSpace(origin); o != "" {
			allowed = append(allowed, o)
		}
	}
	var originFunc func(*http.Request, string) bool
	if len(allowed) == 0 {
		// go-chi/cors reads an empty AllowedOrigins as "*".
		originFunc = func(*http.Request, string) bool { return false }
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowOriginFunc:  originFunc,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler
}

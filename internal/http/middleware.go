package http

import (
	"net/http"
	"strings"
)

const pageCSP = "default-src 'self'; " +
	"script-src 'self' https://www.google.com https://www.gstatic.com; " +
	"frame-src https://www.google.com; " +
	"img-src 'self' data:; style-src 'self' 'unsafe-inline'"

// SecurityHeaders adds security-related headers to all responses.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		switch {
		case strings.HasPrefix(r.URL.Path, "/api/"), r.URL.Path == "/health", r.URL.Path == "/metrics":
			w.Header().Set("Content-Security-Policy", "default-src 'none'")
		case strings.HasPrefix(r.URL.Path, "/swagger/"):
			// Swagger UI needs scripts, styles, and images to render
			w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
		default:
			// Pages load the reCAPTCHA widget
			w.Header().Set("Content-Security-Policy", pageCSP)
		}

		next.ServeHTTP(w, r)
	})
}

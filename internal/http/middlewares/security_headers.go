package middlewares

import "net/http"

// WithSecurityHeaders agrega los headers defensivos estándar a toda respuesta
// del servicio. La API es JSON-only, así que la CSP puede ser restrictiva.
func WithSecurityHeaders() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Cache-Control", "no-store")

			next.ServeHTTP(w, r)
		})
	}
}

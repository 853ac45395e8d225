package middleware

import (
	"go-admin-console/internal/view"
	"net/http"
)

// SettingsMiddleware checks for a "basic=true" query parameter and sets a corresponding
// flag in the request context. This allows downstream handlers and templates to
// disable features like HTMX for a simpler, basic HTML experience.
func SettingsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		basicMode := r.URL.Query().Get("basic") == "true"
		next.ServeHTTP(w, r.WithContext(view.WithBasicMode(r.Context(), basicMode)))
	})
}

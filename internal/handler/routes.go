package handler

import (
	"go-admin-console/internal/middleware"
	"go-admin-console/internal/session"
	"go-admin-console/web"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures a new chi router.
func NewRouter(consoleHandler *ConsoleHandler, authHandler *AuthHandler, authzMiddleware func(http.Handler) http.Handler, errorMiddleware func(middleware.AppHandler) http.Handler, sessionManager session.Manager) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.SettingsMiddleware)

	// Public routes
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.StaticFS))))
	r.Get("/robots.txt", robotsHandler)

	// Authentication routes
	r.Get("/auth/login", authHandler.handleLogin)
	r.Get("/auth/callback", authHandler.handleCallback)
	r.Get("/auth/logout", authHandler.handleLogout)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authzMiddleware)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/posts", http.StatusFound)
		})
		r.Method(http.MethodGet, "/{kind}", errorMiddleware(consoleHandler.listHandler))
		r.Method(http.MethodPost, "/{kind}", errorMiddleware(consoleHandler.createHandler))
		r.Method(http.MethodGet, "/{kind}/{id}", errorMiddleware(consoleHandler.previewHandler))
		r.Method(http.MethodPost, "/{kind}/{id}", errorMiddleware(consoleHandler.updateHandler))
		r.Method(http.MethodPost, "/{kind}/{id}/{action}", errorMiddleware(consoleHandler.actionHandler))
	})

	return r
}

// robotsHandler keeps crawlers out of the console.
func robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
}

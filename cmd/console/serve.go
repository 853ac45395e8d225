package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-admin-console/internal/auth"
	"go-admin-console/internal/cache"
	"go-admin-console/internal/data"
	"go-admin-console/internal/handler"
	"go-admin-console/internal/middleware"
	"go-admin-console/internal/service"
	"go-admin-console/internal/session"
	"go-admin-console/internal/validation"
	"go-admin-console/internal/view"
	"go-admin-console/web"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin web server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port")
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// --- Database Initialization and Migration ---
	db, err := openDB(ctx)
	if err != nil {
		log.Fatal(err, "Failed to prepare database")
	}
	defer db.Close()

	// --- Session Management Setup ---
	sessionManager, err := session.New(cfg.Session, cfg.DB.Driver, db.DB, cfg.Server.TLS.Enabled)
	if err != nil {
		log.Fatal(err, "Failed to initialize sessions")
	}

	// --- Authentication and Authorization Setup ---
	log.Info("Initializing authentication and authorization...")
	authenticator, err := auth.NewAuthenticator(ctx, &cfg.OIDC)
	switch {
	case errors.Is(err, auth.ErrLoginDisabled):
		log.Warn(loginDisabledNotice(cfg.Auth.AnonymousRole))
	case err != nil:
		log.Fatal(err, "Failed to initialize authenticator")
	}
	enforcer, err := auth.NewEnforcer(db.DriverName(), cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, cfg.Auth, log)
	log.Info("Auth components initialized and policies seeded.")

	// --- View Template Initialization ---
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	listCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer listCache.Close()

	// --- Dependency Injection and Handler Initialization ---
	validator := validation.New()
	userService := service.NewUserService(data.NewSQLUserRepository(db), validator, listCache)
	postService := service.NewPostService(data.NewSQLPostRepository(db), validator, listCache)

	consoleHandler := handler.NewConsoleHandler(userService, postService, sessionManager, viewService, log, handler.ConsoleOptions{
		ItemsPerPage: cfg.Table.ItemsPerPage,
		Language:     cfg.Table.Language,
		LoginEnabled: authenticator != nil,
	})
	authHandler := handler.NewAuthHandler(authenticator, sessionManager, enforcer, log)

	authzMiddleware := middleware.Authorizer(enforcer, sessionManager, cfg.Auth.AnonymousRole, log)
	errorMiddleware := middleware.Error(log, viewService)

	router := handler.NewRouter(consoleHandler, authHandler, authzMiddleware, errorMiddleware, sessionManager)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("Server exiting")
	return nil
}

// loginDisabledNotice tells the operator what visitors can do when no OIDC
// issuer is configured and which settings change it.
func loginDisabledNotice(anonymousRole string) string {
	const fix = "set auth.anonymous_role or configure oidc.issuer_url"
	switch anonymousRole {
	case "":
		return "No OIDC issuer configured and auth.anonymous_role is empty: every request will be denied; " + fix + "."
	case auth.RoleViewer:
		return fmt.Sprintf("No OIDC issuer configured: visitors get the %q role and the console is read-only; "+
			"creating, editing and deleting return 403 until you %s.", anonymousRole, fix)
	default:
		return fmt.Sprintf("No OIDC issuer configured: every visitor gets the %q role without signing in.", anonymousRole)
	}
}

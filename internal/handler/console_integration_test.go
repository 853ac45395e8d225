//go:build integration

package handler

import (
	"context"
	"fmt"
	"go-admin-console/internal/auth"
	"go-admin-console/internal/config"
	"go-admin-console/internal/data"
	"go-admin-console/internal/logger"
	"go-admin-console/internal/middleware"
	"go-admin-console/internal/service"
	"go-admin-console/internal/session"
	"go-admin-console/internal/validation"
	"go-admin-console/internal/view"
	"go-admin-console/web"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type testApp struct {
	Router *chi.Mux
	Posts  *data.SQLPostRepository
}

// setupIntegrationTest initializes a full application stack for testing.
// Anonymous requests are authorized as anonymousRole.
func setupIntegrationTest(t *testing.T, anonymousRole string) (*testApp, func()) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := data.NewDB(config.DBConfig{Driver: data.DriverSQLite, DSN: dsn})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := data.ApplyMigrations(db); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	log := logger.New(config.LogConfig{Level: "error", Format: "console"}, nil)
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		t.Fatalf("Failed to parse templates: %v", err)
	}

	userRepository := data.NewSQLUserRepository(db)
	postRepository := data.NewSQLPostRepository(db)
	if err := data.Seed(context.Background(), userRepository, postRepository); err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}
	validator := validation.New()
	userService := service.NewUserService(userRepository, validator, nil)
	postService := service.NewPostService(postRepository, validator, nil)

	sessionManager, err := session.New(config.SessionConfig{Lifetime: 1}, data.DriverSQLite, db.DB, false)
	if err != nil {
		t.Fatalf("Failed to create session manager: %v", err)
	}

	enforcer, err := auth.NewEnforcer(data.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to create enforcer: %v", err)
	}
	auth.SeedDefaultPolicies(enforcer, config.AuthConfig{}, log)

	consoleHandler := NewConsoleHandler(userService, postService, sessionManager, viewService, log, ConsoleOptions{ItemsPerPage: 10})
	authHandler := NewAuthHandler(nil, sessionManager, enforcer, log)
	authzMiddleware := middleware.Authorizer(enforcer, sessionManager, anonymousRole, log)
	errorMiddleware := middleware.Error(log, viewService)
	router := NewRouter(consoleHandler, authHandler, authzMiddleware, errorMiddleware, sessionManager)

	app := &testApp{Router: router, Posts: postRepository}
	teardown := func() {
		db.Close()
	}
	return app, teardown
}

func TestHandlers_Integration(t *testing.T) {
	app, teardown := setupIntegrationTest(t, auth.RoleViewer)
	defer teardown()

	testCases := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"List posts", "GET", "/posts", http.StatusOK, "Inclusive web guide"},
		{"List users", "GET", "/users", http.StatusOK, "john_doe"},
		{"Search posts", "GET", "/posts?q=access", http.StatusOK, "Inclusive web guide"},
		{"Preview post", "GET", "/posts/1", http.StatusOK, "<h2>"},
		{"Missing post", "GET", "/posts/404", http.StatusNotFound, "Error 404"},
		{"Viewer cannot create", "POST", "/posts", http.StatusForbidden, "Forbidden"},
		{"Viewer cannot delete users", "POST", "/users/1/delete", http.StatusForbidden, "Forbidden"},
		{"Robots", "GET", "/robots.txt", http.StatusOK, "Disallow"},
		{"Stylesheet", "GET", "/static/console.css", http.StatusOK, ".badge"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()
			app.Router.ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Errorf("want status %d; got %d", tc.wantStatus, rr.Code)
			}
			if tc.wantBody != "" && !strings.Contains(rr.Body.String(), tc.wantBody) {
				t.Errorf("body does not contain expected string '%s'", tc.wantBody)
			}
		})
	}
}

func TestHandlers_PublishFlow(t *testing.T) {
	app, teardown := setupIntegrationTest(t, auth.RoleAdmin)
	defer teardown()
	ctx := context.Background()

	posts, err := app.Posts.GetAllPosts(ctx)
	if err != nil {
		t.Fatalf("GetAllPosts failed: %v", err)
	}
	var draft *data.Post
	for _, p := range posts {
		if p.Status == data.PostDraft {
			draft = p
			break
		}
	}
	if draft == nil {
		t.Fatal("seed data has no draft post")
	}

	req := httptest.NewRequest("POST", fmt.Sprintf("/posts/%d/publish", draft.ID), strings.NewReader(url.Values{}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	app.Router.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("want status %d; got %d", http.StatusSeeOther, rr.Code)
	}

	got, err := app.Posts.GetPostByID(ctx, draft.ID)
	if err != nil {
		t.Fatalf("GetPostByID failed: %v", err)
	}
	if got.Status != data.PostPublished {
		t.Errorf("want status %q; got %q", data.PostPublished, got.Status)
	}

	// The banner travels in the session cookie to the next page.
	next := httptest.NewRequest("GET", "/posts", nil)
	for _, c := range rr.Result().Cookies() {
		next.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	app.Router.ServeHTTP(rr, next)
	if !strings.Contains(rr.Body.String(), "alert-success") {
		t.Error("expected the success banner on the next page")
	}

	// Publishing again is not offered.
	req = httptest.NewRequest("POST", fmt.Sprintf("/posts/%d/publish", draft.ID), nil)
	rr = httptest.NewRecorder()
	app.Router.ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Errorf("want status %d; got %d", http.StatusConflict, rr.Code)
	}
}

package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"go-admin-console/internal/auth"
	"go-admin-console/internal/logger"
	"go-admin-console/internal/session"
	"io"
	"net/http"

	"github.com/casbin/casbin/v2"
)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	auth     *auth.Authenticator
	sessions session.Manager
	enforcer casbin.IEnforcer
	log      logger.Logger
}

// NewAuthHandler creates a new AuthHandler. A nil authenticator disables
// login; logout keeps working.
func NewAuthHandler(a *auth.Authenticator, sm session.Manager, e casbin.IEnforcer, log logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{auth: a, sessions: sm, enforcer: e, log: log}
}

// handleLogin redirects the user to the OIDC provider to log in.
// It uses a random 'state' string, kept in the session, for CSRF protection.
func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		http.Error(w, auth.ErrLoginDisabled.Error(), http.StatusNotFound)
		return
	}
	state, err := randString(16)
	if err != nil {
		h.log.Error(err, "Failed to generate login state")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.sessions.Put(r.Context(), session.StateKey, state)
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

// handleCallback is the redirect URL for the OIDC provider.
// It handles the code exchange and token verification, then stores the
// subject in the session.
func (h *AuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		http.Error(w, auth.ErrLoginDisabled.Error(), http.StatusNotFound)
		return
	}
	state := h.sessions.PopString(r.Context(), session.StateKey)
	if state == "" || r.URL.Query().Get("state") != state {
		http.Error(w, "state did not match", http.StatusBadRequest)
		return
	}

	oauth2Token, err := h.auth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.log.Error(err, "Failed to exchange token")
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		h.log.Error(errors.New("missing id_token"), "No id_token field in oauth2 token")
		http.Error(w, "No id_token field in oauth2 token", http.StatusInternalServerError)
		return
	}

	// The OIDC library checks the issuer, audience and expiry.
	idToken, err := h.auth.IDTokenVerifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		h.log.Error(err, "Failed to verify ID token")
		http.Error(w, "Failed to verify ID Token", http.StatusUnauthorized)
		return
	}
	subject, err := auth.Subject(idToken)
	if err != nil {
		h.log.Error(err, "Failed to read ID token claims")
		http.Error(w, "Failed to read ID Token claims", http.StatusInternalServerError)
		return
	}

	if err := auth.EnsureRole(h.enforcer, subject, auth.RoleViewer); err != nil {
		h.log.Error(err, "Failed to grant default role")
	}
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		h.log.Error(err, "Failed to renew session token")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.sessions.Put(r.Context(), session.SubjectKey, subject)
	session.Flash(h.sessions, r.Context(), "success", "Signed in as "+subject)
	h.log.With(map[string]interface{}{"subject": subject}).Info("User logged in")

	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout destroys the session and returns to the console.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.log.Error(err, "Failed to destroy session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// randString is a helper function to generate a random string for the 'state' parameter.
func randString(nByte int) (string, error) {
	b := make([]byte, nByte)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

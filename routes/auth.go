/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/headcircle/auth"
	"github.com/humaidq/headcircle/db"
)

// Authenticator runs the external sign-in flow.
type Authenticator interface {
	AuthCodeURL(state string) string
	SignIn(ctx context.Context, code string) (*db.User, error)
}

var (
	nowFn      = time.Now
	newStateFn = auth.NewState
)

// Sign-in error codes shown on the error page.
const (
	authErrorState    = "state"
	authErrorDenied   = "denied"
	authErrorSignIn   = "signin"
	authErrorInternal = "internal"
)

var authErrorMessages = map[string]string{
	authErrorState:    "Your sign-in attempt expired. Please try again.",
	authErrorDenied:   "Sign-in was cancelled at Google.",
	authErrorSignIn:   "We could not sign you in with that account.",
	authErrorInternal: "Something went wrong while preparing your workspace.",
}

// SignInPage renders the sign-in page
func SignInPage(s session.Session, c flamego.Context, t template.Template, data template.Data) {
	if authenticated, _ := s.Get(sessionAuthenticated).(bool); authenticated {
		c.Redirect("/", http.StatusSeeOther)
		return
	}

	data["HeaderOnly"] = true
	t.HTML(http.StatusOK, "signin")
}

// GoogleSignIn starts the OAuth flow.
func GoogleSignIn(s session.Session, c flamego.Context, authenticator Authenticator) {
	state := newStateFn()
	s.Set(sessionOAuthState, state)

	c.Redirect(authenticator.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback completes the OAuth flow and opens the user's patient store.
func GoogleCallback(s session.Session, c flamego.Context, authenticator Authenticator, registry *db.Registry) {
	expected, _ := s.Get(sessionOAuthState).(string)
	s.Delete(sessionOAuthState)

	if c.Query("error") != "" {
		logAccessDenied(c, s, "oauth_denied", http.StatusSeeOther, "/auth/error", "oauth_error", c.Query("error"))
		redirectAuthError(c, authErrorDenied)
		return
	}

	if expected == "" || c.Query("state") != expected {
		logAccessDenied(c, s, "oauth_state_mismatch", http.StatusSeeOther, "/auth/error")
		redirectAuthError(c, authErrorState)
		return
	}

	ctx := c.Request().Context()

	user, err := authenticator.SignIn(ctx, c.Query("code"))
	if err != nil {
		logger.Error("Sign-in failed", "error", err)
		redirectAuthError(c, authErrorSignIn)
		return
	}

	if _, err := registry.Open(ctx, user.ID, nowFn()); err != nil {
		logger.Error("Failed to open patient store", "user_id", user.ID, "error", err)
		redirectAuthError(c, authErrorInternal)
		return
	}

	// The memory session store is keyed by the id it was created with and
	// cannot follow a regenerated id, so the session keeps its id here.
	clearAuthenticatedSession(s)
	setAuthenticatedSession(s, user)
	logger.Info("User signed in", "user_id", user.ID)

	c.Redirect("/", http.StatusSeeOther)
}

func redirectAuthError(c flamego.Context, code string) {
	c.Redirect("/auth/error?error="+url.QueryEscape(code), http.StatusSeeOther)
}

// AuthError renders the sign-in error page.
func AuthError(c flamego.Context, t template.Template, data template.Data) {
	message, ok := authErrorMessages[c.Query("error")]
	if !ok {
		message = authErrorMessages[authErrorSignIn]
	}

	data["HeaderOnly"] = true
	data["ErrorMessage"] = message
	t.HTML(http.StatusUnauthorized, "auth_error")
}

// Logout clears the session and discards the user's patients.
func Logout(s session.Session, c flamego.Context, registry *db.Registry) {
	if userID, ok := getSessionUserID(s); ok {
		registry.Discard(userID)
	}

	clearAuthenticatedSession(s)
	SetInfoFlash(s, "You have been signed out")
	c.Redirect("/auth/signin", http.StatusSeeOther)
}

// RequireAuth is a middleware that checks if user is authenticated and
// maps the user's patient store for the handlers that follow.
func RequireAuth(s session.Session, c flamego.Context, registry *db.Registry) {
	authenticated, ok := s.Get(sessionAuthenticated).(bool)
	if !ok || !authenticated {
		logAccessDenied(c, s, "unauthenticated", http.StatusFound, "/auth/signin")
		c.Redirect("/auth/signin")
		return
	}

	userID, ok := getSessionUserID(s)
	if !ok {
		logAccessDenied(c, s, "session_user_missing", http.StatusFound, "/auth/signin", "error", errSessionUserMissing)
		clearAuthenticatedSession(s)
		c.Redirect("/auth/signin")
		return
	}

	store, err := registry.Open(c.Request().Context(), userID, nowFn())
	if err != nil {
		logger.Error("Failed to open patient store", "user_id", userID, "error", err)
		c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		return
	}

	c.Map(store)
	c.Next()
}

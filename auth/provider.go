/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package auth signs practitioners in with Google and resolves their account
// through the backend user service.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/humaidq/headcircle/db"
)

// Config holds the Google OAuth client settings and the optional user
// service location.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// APIURL is the base URL of the user service. When empty, the user is
	// built from the id token claims.
	APIURL string
	// Endpoint overrides Google's endpoints, mainly for tests.
	Endpoint   oauth2.Endpoint
	HTTPClient *http.Client
}

// Provider runs the OAuth authorization code flow against Google.
type Provider struct {
	oauth      *oauth2.Config
	users      *UserService
	httpClient *http.Client
}

// NewProvider validates cfg and returns a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	switch {
	case cfg.ClientID == "":
		return nil, errClientIDRequired
	case cfg.ClientSecret == "":
		return nil, errClientSecretRequired
	case cfg.RedirectURL == "":
		return nil, errRedirectURLRequired
	}

	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = endpoints.Google
	}

	p := &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		httpClient: cfg.HTTPClient,
	}

	if cfg.APIURL != "" {
		p.users = NewUserService(cfg.APIURL, cfg.HTTPClient)
	}

	return p, nil
}

// NewState returns a random value to bind the callback to the session.
func NewState() string {
	return uuid.NewString()
}

// AuthCodeURL returns the Google consent page URL for the given state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// SignIn exchanges the authorization code and resolves the account.
func (p *Provider) SignIn(ctx context.Context, code string) (*db.User, error) {
	if p.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return nil, errMissingIDToken
	}

	if p.users == nil {
		return UserFromIDToken(idToken)
	}

	user, err := p.users.Login(ctx, idToken)
	if err != nil {
		return nil, err
	}

	logger.Info("Signed in", "user_id", user.ID, "plan", user.Plan)

	return user, nil
}

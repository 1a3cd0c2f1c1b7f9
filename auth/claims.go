/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/humaidq/headcircle/db"
)

type googleClaims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// UserFromIDToken builds a free-plan user from the claims of an id token.
//
// The signature is not verified: the token must come straight from Google's
// token endpoint over TLS, never from the browser.
func UserFromIDToken(idToken string) (*db.User, error) {
	var claims googleClaims

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse id token: %w", err)
	}

	if claims.Subject == "" {
		return nil, errMissingSubject
	}

	user := &db.User{
		ID:      claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
		Plan:    db.PlanFree,
	}

	if claims.IssuedAt != nil {
		user.CreatedAt = claims.IssuedAt.Time
	}

	return user, nil
}

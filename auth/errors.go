/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package auth

import "errors"

var (
	errClientIDRequired     = errors.New("GOOGLE_CLIENT_ID is required")
	errClientSecretRequired = errors.New("GOOGLE_CLIENT_SECRET is required")
	errRedirectURLRequired  = errors.New("redirect URL is required")
	errMissingIDToken       = errors.New("token response has no id_token")
	errMissingSubject       = errors.New("id token has no subject")

	// ErrLoginRejected is returned when the user service refuses the login.
	ErrLoginRejected = errors.New("user service rejected login")
)

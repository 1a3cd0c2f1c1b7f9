/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import "errors"

var (
	errBaseURLRequired      = errors.New("base-url is required (set via --base-url or BASE_URL env var)")
	errInvalidBaseURL       = errors.New("base-url must be an absolute http or https URL")
	errClientIDRequired     = errors.New("google-client-id is required (set via --google-client-id or GOOGLE_CLIENT_ID env var)")
	errClientSecretRequired = errors.New("google-client-secret is required (set via --google-client-secret or GOOGLE_CLIENT_SECRET env var)")
	errCSRFSecretRequired   = errors.New("CSRF_SECRET is required")
	errInvalidSize          = errors.New("size must be a positive number of centimeters")
	errDateBeforeBirth      = errors.New("measurement date is before the birth date")
)

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import "errors"

var (
	// ErrPatientNotFound is returned when no patient matches the given id.
	// The store state is left untouched.
	ErrPatientNotFound = errors.New("patient not found")
	// ErrDuplicatePatientID is returned by strict stores on id reuse.
	ErrDuplicatePatientID = errors.New("duplicate patient id")
	// ErrUserIDRequired is returned when opening a store without a user.
	ErrUserIDRequired = errors.New("user id is required")
)

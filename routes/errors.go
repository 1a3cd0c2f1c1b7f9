/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import "errors"

var (
	errMissingDate          = errors.New("missing date")
	errInvalidDate          = errors.New("invalid date")
	errInvalidTime          = errors.New("invalid time")
	errMissingSize          = errors.New("missing size")
	errInvalidSize          = errors.New("invalid size")
	errSizeOutOfRange       = errors.New("size out of range")
	errSessionUserMissing   = errors.New("session user missing")
	errInvalidMeasurementID = errors.New("invalid measurement index")
)

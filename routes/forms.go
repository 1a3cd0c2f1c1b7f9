/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Accepted head circumference ranges in centimeters.
const (
	minBirthSize       = 20.0
	maxBirthSize       = 50.0
	maxMeasurementSize = 100.0
)

// formLocation is the zone dates without an offset are interpreted in.
var formLocation = time.Local

// parseFormDate parses a YYYY-MM-DD date and an optional HH:MM time.
func parseFormDate(dateStr, timeStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}, errMissingDate
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, formLocation)
	if err != nil {
		return time.Time{}, errInvalidDate
	}

	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" {
		return date, nil
	}

	clock, err := time.Parse("15:04", timeStr)
	if err != nil {
		return time.Time{}, errInvalidTime
	}

	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, formLocation), nil
}

// parseCentimeters parses a positive size no larger than limit. Commas are
// accepted as decimal separators.
func parseCentimeters(value string, limit float64) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	if value == "" {
		return 0, errMissingSize
	}

	size, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(size) || math.IsInf(size, 0) {
		return 0, errInvalidSize
	}

	if size <= 0 || size > limit {
		return 0, errSizeOutOfRange
	}

	return size, nil
}

// parseBirthSize parses an optional recorded birth head circumference.
func parseBirthSize(value string) (*float64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	size, err := parseCentimeters(value, maxBirthSize)
	if err != nil {
		return nil, err
	}

	if size < minBirthSize {
		return nil, errSizeOutOfRange
	}

	return &size, nil
}

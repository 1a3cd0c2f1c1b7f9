/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package growth

import "time"

// Assessment holds the values derived from a single measurement.
type Assessment struct {
	AgeInMonths        int
	AgeInDays          int
	Size               float64
	ExpectedSize       float64
	Difference         float64
	EstimatedBirthSize float64
	RecordedBirthSize  *float64
	Percentile         Percentile
}

// Assess derives display values for a measurement of size taken on date for
// a subject born on birth. recordedBirthSize is optional.
func Assess(birth, date time.Time, size float64, recordedBirthSize *float64) Assessment {
	months := AgeInMonths(birth, date)
	age := float64(months)

	return Assessment{
		AgeInMonths:        months,
		AgeInDays:          AgeInDays(birth, date),
		Size:               size,
		ExpectedSize:       ExpectedSize(age),
		Difference:         Difference(size, age),
		EstimatedBirthSize: EstimatedBirthSize(size, age),
		RecordedBirthSize:  recordedBirthSize,
		Percentile:         ClassifyPercentile(size, age),
	}
}

// HasRecordedBirthSize reports whether a birth size was recorded.
func (a Assessment) HasRecordedBirthSize() bool {
	return a.RecordedBirthSize != nil
}

// AboveExpected reports whether the measurement is at or above the curve.
func (a Assessment) AboveExpected() bool {
	return a.Difference >= 0
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */

// Package growth models expected infant head circumference by age and
// classifies observed measurements against it.
//
// The curve is an illustrative piecewise-linear approximation of the 50th
// percentile, not a validated clinical percentile table.
package growth

import "math"

// BirthSize is the expected head circumference at birth in centimeters.
const BirthSize = 35.0

// MinEstimatedBirthSize is the floor applied to back-extrapolated birth sizes.
const MinEstimatedBirthSize = 30.0

// Percentile is a coarse classification of a measurement relative to the
// expected size, based on the difference in centimeters.
type Percentile string

// Percentile buckets, from largest to smallest.
const (
	PercentileAbove95 Percentile = "Above 95th"
	Percentile75To95  Percentile = "75th-95th"
	Percentile25To75  Percentile = "25th-75th"
	Percentile5To25   Percentile = "5th-25th"
	PercentileBelow5  Percentile = "Below 5th"
)

// Severity groups percentiles for display.
type Severity string

// Severity values.
const (
	SeverityNormal     Severity = "normal"
	SeverityBorderline Severity = "borderline"
	SeverityOutlier    Severity = "outlier"
)

// Percentiles lists every bucket in descending order.
func Percentiles() []Percentile {
	return []Percentile{
		PercentileAbove95,
		Percentile75To95,
		Percentile25To75,
		Percentile5To25,
		PercentileBelow5,
	}
}

// Valid reports whether p is one of the known buckets.
func (p Percentile) Valid() bool {
	for _, known := range Percentiles() {
		if p == known {
			return true
		}
	}

	return false
}

// Severity returns how far the bucket sits from the median band.
func (p Percentile) Severity() Severity {
	switch p {
	case Percentile25To75:
		return SeverityNormal
	case Percentile75To95, Percentile5To25:
		return SeverityBorderline
	case PercentileAbove95, PercentileBelow5:
		return SeverityOutlier
	default:
		return SeverityNormal
	}
}

func (p Percentile) String() string {
	return string(p)
}

// ExpectedSize returns the expected head circumference in centimeters at
// the given age in months. Ages at or below zero return BirthSize.
func ExpectedSize(ageInMonths float64) float64 {
	age := ageInMonths

	switch {
	case age <= 0:
		return BirthSize
	case age <= 1:
		return 35 + age*2
	case age <= 6:
		return 37 + age*0.8
	case age <= 12:
		return 41.8 + (age-6)*0.4
	case age <= 24:
		return 44.2 + (age-12)*0.25
	case age <= 36:
		return 47.2 + (age-24)*0.15
	default:
		return 49 + (age-36)*0.1
	}
}

// Difference returns how far size is from the expected size at the given age.
func Difference(size, ageInMonths float64) float64 {
	return size - ExpectedSize(ageInMonths)
}

// EstimatedBirthSize back-extrapolates the size at birth, assuming the
// subject kept the same offset from the curve since birth.
func EstimatedBirthSize(currentSize, ageInMonths float64) float64 {
	return math.Max(ExpectedSize(0)+Difference(currentSize, ageInMonths), MinEstimatedBirthSize)
}

// ClassifyPercentile buckets size against the expected size at the given age.
func ClassifyPercentile(size, ageInMonths float64) Percentile {
	difference := Difference(size, ageInMonths)

	switch {
	case difference > 2:
		return PercentileAbove95
	case difference > 1:
		return Percentile75To95
	case difference > -1:
		return Percentile25To75
	case difference > -2:
		return Percentile5To25
	default:
		return PercentileBelow5
	}
}

// CurvePoint is one monthly sample of the reference curve.
type CurvePoint struct {
	AgeInMonths  int
	ExpectedSize float64
}

// Curve samples the reference curve monthly from birth to maxMonths,
// always covering at least the first year.
func Curve(maxMonths int) []CurvePoint {
	if maxMonths < 12 {
		maxMonths = 12
	}

	points := make([]CurvePoint, 0, maxMonths+1)
	for month := 0; month <= maxMonths; month++ {
		points = append(points, CurvePoint{
			AgeInMonths:  month,
			ExpectedSize: ExpectedSize(float64(month)),
		})
	}

	return points
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/humaidq/headcircle/growth"
)

// Plan is the subscription tier of a signed-in user.
type Plan string

// Plan values returned by the user service.
const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// User represents the signed-in practitioner as returned by the user service.
type User struct {
	ID        string
	Name      string
	Email     string
	Picture   string
	Plan      Plan
	CreatedAt time.Time
}

// Initials returns up to two initials of the user's name, or "U".
func (u User) Initials() string {
	var initials []rune

	inWord := false
	for _, r := range u.Name {
		if r == ' ' {
			inWord = false
			continue
		}

		if !inWord {
			initials = append(initials, r)
			inWord = true
		}
	}

	if len(initials) == 0 {
		return "U"
	}

	if len(initials) > 2 {
		initials = initials[:2]
	}

	return strings.ToUpper(string(initials))
}

// Measurement is a single head circumference reading in centimeters.
type Measurement struct {
	Date       time.Time
	Size       float64
	Percentile *growth.Percentile
}

// PercentileLabel returns the assigned percentile, or an empty string.
func (m Measurement) PercentileLabel() string {
	if m.Percentile == nil {
		return ""
	}

	return string(*m.Percentile)
}

// Patient is an infant whose head circumference is being tracked.
// Measurements are kept most recent first.
type Patient struct {
	ID                     string
	UserID                 string
	FirstName              string
	LastName               string
	BirthDate              time.Time
	BirthHeadCircumference *float64
	Measurements           []Measurement
}

// PatientUpdate holds the mutable patient fields; nil fields are left as is.
type PatientUpdate struct {
	FirstName              *string
	LastName               *string
	BirthHeadCircumference *float64
}

// NewPatientID returns a fresh unique patient identifier.
func NewPatientID() string {
	return uuid.NewString()
}

// FullName returns the first and last name joined by a space.
func (p Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// AgeInMonths returns the patient's age in whole months at the given time.
func (p Patient) AgeInMonths(at time.Time) int {
	return growth.AgeInMonths(p.BirthDate, at)
}

// Age renders the patient's age at the given time for display.
func (p Patient) Age(at time.Time) string {
	return growth.FormatAge(p.BirthDate, at)
}

// LatestMeasurement returns the most recent measurement, if any.
func (p Patient) LatestMeasurement() *Measurement {
	if len(p.Measurements) == 0 {
		return nil
	}

	latest := p.Measurements[0]

	return &latest
}

// Assess derives the display values for one of the patient's measurements.
func (p Patient) Assess(m Measurement) growth.Assessment {
	return growth.Assess(p.BirthDate, m.Date, m.Size, p.BirthHeadCircumference)
}

// EstimatedBirthSize back-extrapolates the birth size from the earliest
// measurement, or returns the expected birth size without measurements.
func (p Patient) EstimatedBirthSize() float64 {
	if len(p.Measurements) == 0 {
		return growth.ExpectedSize(0)
	}

	earliest := p.Measurements[0]
	for _, m := range p.Measurements[1:] {
		if m.Date.Before(earliest.Date) {
			earliest = m
		}
	}

	age := float64(growth.AgeInMonths(p.BirthDate, earliest.Date))

	return growth.EstimatedBirthSize(earliest.Size, age)
}

func (p Patient) clone() Patient {
	cloned := p

	if p.BirthHeadCircumference != nil {
		size := *p.BirthHeadCircumference
		cloned.BirthHeadCircumference = &size
	}

	cloned.Measurements = make([]Measurement, len(p.Measurements))
	for i, m := range p.Measurements {
		cloned.Measurements[i] = m.clone()
	}

	return cloned
}

func (m Measurement) clone() Measurement {
	cloned := m

	if m.Percentile != nil {
		percentile := *m.Percentile
		cloned.Percentile = &percentile
	}

	return cloned
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"time"

	"github.com/humaidq/headcircle/growth"
)

// Seed replaces the store contents with demonstration patients whose birth
// dates are relative to now. Fixture percentiles are stored as given.
func (s *Store) Seed(ctx context.Context, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	patients := fixturePatients(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.patients = s.patients[:0]
	for _, patient := range patients {
		patient.UserID = s.owner
		sortMeasurements(patient.Measurements)
		s.patients = append(s.patients, patient)
	}

	logger.Debug("Seeded store", "owner", s.owner, "patients", len(s.patients))

	return nil
}

func fixturePatients(now time.Time) []Patient {
	day := 24 * time.Hour

	emmaBirth := now.AddDate(0, -6, 0)
	noahBirth := now.AddDate(0, -12, 0)

	return []Patient{
		{
			ID:                     "1",
			FirstName:              "Emma",
			LastName:               "Johnson",
			BirthDate:              emmaBirth,
			BirthHeadCircumference: floatPtr(35.2),
			Measurements: []Measurement{
				{Date: emmaBirth.Add(30 * day), Size: 38.2, Percentile: percentilePtr(growth.Percentile25To75)},
				{Date: emmaBirth.Add(90 * day), Size: 41.5, Percentile: percentilePtr(growth.Percentile75To95)},
			},
		},
		{
			ID:        "2",
			FirstName: "Noah",
			LastName:  "Williams",
			BirthDate: noahBirth,
			Measurements: []Measurement{
				{Date: noahBirth.Add(60 * day), Size: 39.8, Percentile: percentilePtr(growth.Percentile25To75)},
				{Date: noahBirth.Add(180 * day), Size: 44.2, Percentile: percentilePtr(growth.Percentile25To75)},
				{Date: noahBirth.Add(300 * day), Size: 46.5, Percentile: percentilePtr(growth.Percentile25To75)},
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

func percentilePtr(p growth.Percentile) *growth.Percentile {
	return &p
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/humaidq/headcircle/growth"
)

// Store is an in-memory collection of patients and their measurements.
// Every measurement list is kept sorted by date, most recent first.
type Store struct {
	mu        sync.RWMutex
	patients  []Patient
	owner     string
	strictIDs bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStrictIDs makes AddPatient reject ids that are already in use.
// By default duplicates are accepted silently.
func WithStrictIDs() StoreOption {
	return func(s *Store) {
		s.strictIDs = true
	}
}

// WithOwner stamps the given user id on patients added without one.
func WithOwner(userID string) StoreOption {
	return func(s *Store) {
		s.owner = userID
	}
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// AddPatient appends a patient. The caller supplies the id.
func (s *Store) AddPatient(ctx context.Context, patient Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.strictIDs && s.indexOf(patient.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePatientID, patient.ID)
	}

	stored := patient.clone()
	if stored.UserID == "" {
		stored.UserID = s.owner
	}

	sortMeasurements(stored.Measurements)

	s.patients = append(s.patients, stored)

	return nil
}

// UpdatePatient merges the non-nil fields of update into the patient with
// the given id. Unknown ids leave the store untouched and return
// ErrPatientNotFound.
func (s *Store) UpdatePatient(ctx context.Context, id string, update PatientUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false

	for i := range s.patients {
		if s.patients[i].ID != id {
			continue
		}

		found = true
		patient := &s.patients[i]

		if update.FirstName != nil {
			patient.FirstName = *update.FirstName
		}

		if update.LastName != nil {
			patient.LastName = *update.LastName
		}

		if update.BirthHeadCircumference != nil {
			size := *update.BirthHeadCircumference
			patient.BirthHeadCircumference = &size
		}
	}

	if !found {
		return ErrPatientNotFound
	}

	return nil
}

// AddMeasurement tags a copy of m with its percentile at the patient's age
// on m.Date and stores it, keeping the list sorted by date descending.
// The percentile is frozen at this point and never recomputed.
// Unknown ids leave the store untouched and return ErrPatientNotFound.
func (s *Store) AddMeasurement(ctx context.Context, patientID string, m Measurement) (Measurement, error) {
	if err := ctx.Err(); err != nil {
		return Measurement{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		stored Measurement
		found  bool
	)

	for i := range s.patients {
		patient := &s.patients[i]
		if patient.ID != patientID {
			continue
		}

		ageInMonths := growth.AgeInMonths(patient.BirthDate, m.Date)
		percentile := growth.ClassifyPercentile(m.Size, float64(ageInMonths))

		tagged := m.clone()
		tagged.Percentile = &percentile

		patient.Measurements = append(patient.Measurements, tagged)
		sortMeasurements(patient.Measurements)

		logger.Debug("Added measurement",
			"patient_id", patient.ID,
			"age_months", ageInMonths,
			"size", m.Size,
			"percentile", percentile,
		)

		stored = tagged.clone()
		found = true
	}

	if !found {
		return Measurement{}, ErrPatientNotFound
	}

	return stored, nil
}

// GetPatient returns a copy of the first patient with the given id.
func (s *Store) GetPatient(ctx context.Context, id string) (Patient, error) {
	if err := ctx.Err(); err != nil {
		return Patient{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return Patient{}, ErrPatientNotFound
	}

	return s.patients[idx].clone(), nil
}

// Patients returns copies of all patients in insertion order.
func (s *Store) Patients(ctx context.Context) ([]Patient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	patients := make([]Patient, len(s.patients))
	for i, patient := range s.patients {
		patients[i] = patient.clone()
	}

	return patients, nil
}

// Count returns the number of patients.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.patients)
}

// SortField selects the patient list ordering.
type SortField string

// Supported sort fields.
const (
	SortByName    SortField = "name"
	SortByAge     SortField = "age"
	SortByRecords SortField = "records"
)

// SortDirection is ascending or descending.
type SortDirection string

// Supported sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortField maps user input to a sort field, defaulting to name.
func ParseSortField(value string) SortField {
	switch SortField(strings.ToLower(strings.TrimSpace(value))) {
	case SortByAge:
		return SortByAge
	case SortByRecords:
		return SortByRecords
	default:
		return SortByName
	}
}

// ParseSortDirection maps user input to a direction, defaulting to asc.
func ParseSortDirection(value string) SortDirection {
	if SortDirection(strings.ToLower(strings.TrimSpace(value))) == SortDesc {
		return SortDesc
	}

	return SortAsc
}

// ListPatientsInput filters and orders ListPatients results.
type ListPatientsInput struct {
	Query     string
	SortField SortField
	Direction SortDirection
}

// ListPatients returns patients whose first or last name contains the query
// (case-insensitive), ordered as requested.
func (s *Store) ListPatients(ctx context.Context, input ListPatientsInput) ([]Patient, error) {
	patients, err := s.Patients(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(input.Query))
	if query != "" {
		patients = slices.DeleteFunc(patients, func(p Patient) bool {
			return !strings.Contains(strings.ToLower(p.FirstName), query) &&
				!strings.Contains(strings.ToLower(p.LastName), query)
		})
	}

	compare := comparePatients(input.SortField)
	if input.Direction == SortDesc {
		slices.SortStableFunc(patients, func(a, b Patient) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(patients, compare)
	}

	return patients, nil
}

func comparePatients(field SortField) func(a, b Patient) int {
	switch field {
	case SortByAge:
		return func(a, b Patient) int {
			return a.BirthDate.Compare(b.BirthDate)
		}
	case SortByRecords:
		return func(a, b Patient) int {
			return len(a.Measurements) - len(b.Measurements)
		}
	default:
		return func(a, b Patient) int {
			return strings.Compare(strings.ToLower(a.FullName()), strings.ToLower(b.FullName()))
		}
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.patients, func(p Patient) bool {
		return p.ID == id
	})
}

// sortMeasurements orders measurements most recent first. Equal dates keep
// their insertion order.
func sortMeasurements(measurements []Measurement) {
	slices.SortStableFunc(measurements, func(a, b Measurement) int {
		return b.Date.Compare(a.Date)
	})
}

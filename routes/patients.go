/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"errors"
	htmltemplate "html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/headcircle/db"
	"github.com/humaidq/headcircle/growth"
)

// ListPatients renders the patient list with optional search and sorting.
func ListPatients(c flamego.Context, store *db.Store, t template.Template, data template.Data) {
	data["IsPatients"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(true),
	}

	input := db.ListPatientsInput{
		Query:     strings.TrimSpace(c.Query("q")),
		SortField: db.ParseSortField(c.Query("sort")),
		Direction: db.ParseSortDirection(c.Query("dir")),
	}

	patients, err := store.ListPatients(c.Request().Context(), input)
	if err != nil {
		logger.Error("Error listing patients", "error", err)
		data["Error"] = "Failed to load patients"
	} else {
		data["Patients"] = patients
	}

	data["Query"] = input.Query
	data["Sort"] = string(input.SortField)
	data["Dir"] = string(input.Direction)
	data["Total"] = store.Count()
	data["Now"] = nowFn()

	t.HTML(http.StatusOK, "patients_list")
}

// NewPatientForm renders the add patient form
func NewPatientForm(t template.Template, data template.Data) {
	data["IsPatients"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		{Name: "New Patient", URL: "", IsCurrent: true},
	}
	data["MaxDate"] = inputDate(nowFn())

	t.HTML(http.StatusOK, "patient_new")
}

// CreatePatient handles the add patient form submission
func CreatePatient(c flamego.Context, s session.Session, store *db.Store) {
	if err := c.Request().ParseForm(); err != nil {
		logger.Error("Error parsing form", "error", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect("/patient/new", http.StatusSeeOther)
		return
	}

	form := c.Request().Form

	firstName := strings.TrimSpace(form.Get("first_name"))
	lastName := strings.TrimSpace(form.Get("last_name"))
	if firstName == "" || lastName == "" {
		SetErrorFlash(s, "First and last name are required")
		c.Redirect("/patient/new", http.StatusSeeOther)
		return
	}

	birthDate, err := parseFormDate(form.Get("birth_date"), "")
	if err != nil {
		SetErrorFlash(s, "Birth date must be a valid date")
		c.Redirect("/patient/new", http.StatusSeeOther)
		return
	}

	if birthDate.After(nowFn()) {
		SetErrorFlash(s, "Birth date cannot be in the future")
		c.Redirect("/patient/new", http.StatusSeeOther)
		return
	}

	birthSize, err := parseBirthSize(form.Get("birth_head_circumference"))
	if err != nil {
		SetErrorFlash(s, "Birth head circumference must be between 20 and 50 cm")
		c.Redirect("/patient/new", http.StatusSeeOther)
		return
	}

	patient := db.Patient{
		ID:                     db.NewPatientID(),
		FirstName:              firstName,
		LastName:               lastName,
		BirthDate:              birthDate,
		BirthHeadCircumference: birthSize,
	}

	if err := store.AddPatient(c.Request().Context(), patient); err != nil {
		logger.Error("Error creating patient", "error", err)
		SetErrorFlash(s, "Failed to create patient")
		c.Redirect("/patient/new", http.StatusSeeOther)
		return
	}

	logger.Info("Created patient", "patient_id", patient.ID)

	if birthSize != nil && growth.ClassifyPercentile(*birthSize, 0).Severity() == growth.SeverityOutlier {
		SetWarningFlash(s, "Patient added. The recorded birth head circumference is outside the typical range")
	} else {
		SetSuccessFlash(s, "Patient added successfully")
	}

	c.Redirect("/patient/"+patient.ID, http.StatusSeeOther)
}

// loadPatient fetches the patient named by the id route parameter. It
// redirects to the patient list and returns false when there is none.
func loadPatient(c flamego.Context, s session.Session, store *db.Store) (db.Patient, bool) {
	id := c.Param("id")

	patient, err := store.GetPatient(c.Request().Context(), id)
	if err != nil {
		if !errors.Is(err, db.ErrPatientNotFound) {
			logger.Error("Error fetching patient", "patient_id", id, "error", err)
		}

		SetErrorFlash(s, "Patient not found")
		c.Redirect("/", http.StatusSeeOther)

		return db.Patient{}, false
	}

	return patient, true
}

// ViewPatient renders a patient with their measurement history and chart.
func ViewPatient(c flamego.Context, s session.Session, store *db.Store, t template.Template, data template.Data) {
	patient, ok := loadPatient(c, s, store)
	if !ok {
		return
	}

	data["IsPatients"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(patient.ID, patient.FullName(), true),
	}
	data["Patient"] = patient
	data["Now"] = nowFn()
	data["Latest"] = patient.LatestMeasurement()
	data["EstimatedBirthSize"] = patient.EstimatedBirthSize()

	chart, err := generateGrowthChart(patient)
	if err != nil {
		logger.Error("Error generating growth chart", "patient_id", patient.ID, "error", err)
	} else if chart != "" {
		data["Chart"] = htmltemplate.HTML(chart)
	}

	t.HTML(http.StatusOK, "patient_view")
}

// EditPatientForm renders the edit patient form
func EditPatientForm(c flamego.Context, s session.Session, store *db.Store, t template.Template, data template.Data) {
	patient, ok := loadPatient(c, s, store)
	if !ok {
		return
	}

	data["IsPatients"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(patient.ID, patient.FullName(), false),
		{Name: "Edit", URL: "", IsCurrent: true},
	}
	data["Patient"] = patient
	data["BirthSizeValue"] = ""

	if patient.BirthHeadCircumference != nil {
		data["BirthSizeValue"] = strconv.FormatFloat(*patient.BirthHeadCircumference, 'f', -1, 64)
	}

	t.HTML(http.StatusOK, "patient_edit")
}

// UpdatePatient handles the edit patient form submission. The birth date is
// fixed once a patient is created.
func UpdatePatient(c flamego.Context, s session.Session, store *db.Store) {
	id := c.Param("id")
	editURL := "/patient/" + id + "/edit"

	if err := c.Request().ParseForm(); err != nil {
		logger.Error("Error parsing form", "error", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(editURL, http.StatusSeeOther)
		return
	}

	form := c.Request().Form

	firstName := strings.TrimSpace(form.Get("first_name"))
	lastName := strings.TrimSpace(form.Get("last_name"))
	if firstName == "" || lastName == "" {
		SetErrorFlash(s, "First and last name are required")
		c.Redirect(editURL, http.StatusSeeOther)
		return
	}

	update := db.PatientUpdate{
		FirstName: &firstName,
		LastName:  &lastName,
	}

	// An empty field keeps the recorded value.
	birthSize, err := parseBirthSize(form.Get("birth_head_circumference"))
	if err != nil {
		SetErrorFlash(s, "Birth head circumference must be between 20 and 50 cm")
		c.Redirect(editURL, http.StatusSeeOther)
		return
	}
	update.BirthHeadCircumference = birthSize

	err = store.UpdatePatient(c.Request().Context(), id, update)
	if errors.Is(err, db.ErrPatientNotFound) {
		SetErrorFlash(s, "Patient not found")
		c.Redirect("/", http.StatusSeeOther)
		return
	}
	if err != nil {
		logger.Error("Error updating patient", "patient_id", id, "error", err)
		SetErrorFlash(s, "Failed to update patient")
		c.Redirect(editURL, http.StatusSeeOther)
		return
	}

	logger.Info("Updated patient", "patient_id", id)
	SetSuccessFlash(s, "Patient updated successfully")
	c.Redirect("/patient/"+id, http.StatusSeeOther)
}

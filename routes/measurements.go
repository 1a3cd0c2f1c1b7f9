/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strconv"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/headcircle/db"
	"github.com/humaidq/headcircle/growth"
)

// NewMeasurementForm renders the add measurement form
func NewMeasurementForm(c flamego.Context, s session.Session, store *db.Store, t template.Template, data template.Data) {
	patient, ok := loadPatient(c, s, store)
	if !ok {
		return
	}

	now := nowFn()

	data["IsPatients"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(patient.ID, patient.FullName(), false),
		{Name: "New Measurement", URL: "", IsCurrent: true},
	}
	data["Patient"] = patient
	data["Now"] = now
	data["MinDate"] = inputDate(patient.BirthDate)
	data["MaxDate"] = inputDate(now)
	data["DefaultDate"] = inputDate(now)
	data["DefaultTime"] = now.Format("15:04")

	t.HTML(http.StatusOK, "measurement_new")
}

// CreateMeasurement records a measurement and shows its assessment.
func CreateMeasurement(c flamego.Context, s session.Session, store *db.Store, t template.Template, data template.Data) {
	patient, ok := loadPatient(c, s, store)
	if !ok {
		return
	}

	formURL := "/patient/" + patient.ID + "/measurement/new"

	if err := c.Request().ParseForm(); err != nil {
		logger.Error("Error parsing form", "error", err)
		SetErrorFlash(s, "Failed to parse form")
		c.Redirect(formURL, http.StatusSeeOther)
		return
	}

	form := c.Request().Form
	now := nowFn()

	date := now
	if form.Get("date") != "" {
		parsed, err := parseFormDate(form.Get("date"), form.Get("time"))
		if err != nil {
			SetErrorFlash(s, "Measurement date must be a valid date")
			c.Redirect(formURL, http.StatusSeeOther)
			return
		}
		date = parsed
	}

	if date.After(now) {
		SetErrorFlash(s, "Measurement date cannot be in the future")
		c.Redirect(formURL, http.StatusSeeOther)
		return
	}

	if date.Before(patient.BirthDate) {
		SetErrorFlash(s, "Measurement date cannot be before the birth date")
		c.Redirect(formURL, http.StatusSeeOther)
		return
	}

	size, err := parseCentimeters(form.Get("size"), maxMeasurementSize)
	if err != nil {
		SetErrorFlash(s, "Head circumference must be a number between 0 and 100 cm")
		c.Redirect(formURL, http.StatusSeeOther)
		return
	}

	stored, err := store.AddMeasurement(c.Request().Context(), patient.ID, db.Measurement{
		Date: date,
		Size: size,
	})
	if err != nil {
		logger.Error("Error adding measurement", "patient_id", patient.ID, "error", err)
		SetErrorFlash(s, "Failed to save measurement")
		c.Redirect(formURL, http.StatusSeeOther)
		return
	}

	logger.Info("Recorded measurement", "patient_id", patient.ID, "percentile", stored.PercentileLabel())

	renderResult(patient, stored, t, data)
}

// ViewMeasurement shows the assessment of a recorded measurement. The index
// addresses the patient's history, most recent first.
func ViewMeasurement(c flamego.Context, s session.Session, store *db.Store, t template.Template, data template.Data) {
	patient, ok := loadPatient(c, s, store)
	if !ok {
		return
	}

	index, err := parseMeasurementIndex(c.Param("index"), len(patient.Measurements))
	if err != nil {
		SetErrorFlash(s, "Measurement not found")
		c.Redirect("/patient/"+patient.ID, http.StatusSeeOther)
		return
	}

	renderResult(patient, patient.Measurements[index], t, data)
}

func parseMeasurementIndex(value string, count int) (int, error) {
	index, err := strconv.Atoi(value)
	if err != nil || index < 0 || index >= count {
		return 0, errInvalidMeasurementID
	}

	return index, nil
}

func renderResult(patient db.Patient, m db.Measurement, t template.Template, data template.Data) {
	assessment := patient.Assess(m)

	// The stored label wins over a fresh classification.
	percentile := assessment.Percentile
	if m.Percentile != nil {
		percentile = *m.Percentile
	}

	data["IsPatients"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		patientsBreadcrumb(false),
		patientBreadcrumb(patient.ID, patient.FullName(), false),
		{Name: "Result", URL: "", IsCurrent: true},
	}
	data["Patient"] = patient
	data["Measurement"] = m
	data["Assessment"] = assessment
	data["Percentile"] = percentile
	data["Outlier"] = percentile.Severity() == growth.SeverityOutlier

	t.HTML(http.StatusOK, "result")
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"fmt"
	htmltemplate "html/template"
	"time"

	"github.com/humaidq/headcircle/growth"
)

// BreadcrumbItem represents a single breadcrumb navigation item
type BreadcrumbItem struct {
	Name      string
	URL       string
	IsCurrent bool
}

func patientsBreadcrumb(isCurrent bool) BreadcrumbItem {
	return BreadcrumbItem{Name: "Patients", URL: "/", IsCurrent: isCurrent}
}

func patientBreadcrumb(patientID, name string, isCurrent bool) BreadcrumbItem {
	return BreadcrumbItem{Name: name, URL: "/patient/" + patientID, IsCurrent: isCurrent}
}

// TemplateFuncs returns the helpers available to every template.
func TemplateFuncs() htmltemplate.FuncMap {
	return htmltemplate.FuncMap{
		"formatDate":     formatDate,
		"formatTime":     formatTime,
		"inputDate":      inputDate,
		"cm":             formatCentimeters,
		"signedCm":       formatSignedCentimeters,
		"ageAt":          growth.FormatAge,
		"percentileTone": percentileTone,
		"plural":         pluralize,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format("Jan 2, 2006")
}

func formatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

func inputDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format("2006-01-02")
}

func formatCentimeters(size float64) string {
	return fmt.Sprintf("%.1f cm", size)
}

func formatSignedCentimeters(size float64) string {
	return fmt.Sprintf("%+.1f cm", size)
}

// percentileTone maps a percentile label to a CSS modifier.
func percentileTone(label string) string {
	percentile := growth.Percentile(label)
	if !percentile.Valid() {
		return "unknown"
	}

	return string(percentile.Severity())
}

func pluralize(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}

	return fmt.Sprintf("%d %s", n, pluralForm)
}

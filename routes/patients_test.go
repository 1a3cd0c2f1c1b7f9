// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package routes

import (
	"context"
	htmltemplate "html/template"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/humaidq/headcircle/db"
)

func birthDateMonthsAgo(months int) time.Time {
	now := time.Now().In(formLocation)
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, formLocation).AddDate(0, -months, 0)
}

func TestListPatientsFiltersAndSorts(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	store := app.signIn(t)

	mustAddPatient(t, store, db.Patient{ID: "a", FirstName: "Emma", LastName: "Johnson", BirthDate: birthDateMonthsAgo(6)})
	mustAddPatient(t, store, db.Patient{ID: "b", FirstName: "Noah", LastName: "Williams", BirthDate: birthDateMonthsAgo(12)})
	mustAddPatient(t, store, db.Patient{ID: "c", FirstName: "Liam", LastName: "Emmerson", BirthDate: birthDateMonthsAgo(2)})

	app.get(t, "/?q=emm&sort=name&dir=desc")
	assertRendered(t, app, "patients_list", http.StatusOK)

	patients, ok := app.data["Patients"].([]db.Patient)
	if !ok {
		t.Fatalf("expected patients in template data, got %T", app.data["Patients"])
	}

	var ids []string
	for _, p := range patients {
		ids = append(ids, p.ID)
	}

	if strings.Join(ids, ",") != "c,a" {
		t.Fatalf("expected [c a], got %v", ids)
	}

	if app.data["Total"] != 3 {
		t.Fatalf("expected total 3, got %v", app.data["Total"])
	}

	if app.data["Sort"] != "name" || app.data["Dir"] != "desc" || app.data["Query"] != "emm" {
		t.Fatalf("unexpected list state: %v %v %v", app.data["Sort"], app.data["Dir"], app.data["Query"])
	}
}

func TestCreatePatient(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	store := app.signIn(t)

	birth := birthDateMonthsAgo(3)

	rec := app.post(t, "/patient/new", url.Values{
		"first_name":               {" Ava "},
		"last_name":                {"Brown"},
		"birth_date":               {birth.Format("2006-01-02")},
		"birth_head_circumference": {"34,8"},
	})

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	id := strings.TrimPrefix(rec.Header().Get("Location"), "/patient/")
	if id == "" || id == rec.Header().Get("Location") {
		t.Fatalf("unexpected redirect %q", rec.Header().Get("Location"))
	}

	assertFlash(t, app.session, FlashSuccess, "Patient added successfully")

	patient, err := store.GetPatient(context.Background(), id)
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}

	if patient.FirstName != "Ava" || patient.LastName != "Brown" || !patient.BirthDate.Equal(birth) {
		t.Fatalf("unexpected patient: %#v", patient)
	}

	if patient.BirthHeadCircumference == nil || *patient.BirthHeadCircumference != 34.8 {
		t.Fatalf("expected birth size 34.8, got %v", patient.BirthHeadCircumference)
	}

	if patient.UserID != testUserID {
		t.Fatalf("expected patient owned by %q, got %q", testUserID, patient.UserID)
	}
}

func TestCreatePatientWarnsOnUnusualBirthSize(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.signIn(t)

	app.post(t, "/patient/new", url.Values{
		"first_name":               {"Ava"},
		"last_name":                {"Brown"},
		"birth_date":               {birthDateMonthsAgo(1).Format("2006-01-02")},
		"birth_head_circumference": {"31"},
	})

	assertFlash(t, app.session, FlashWarning, "Patient added. The recorded birth head circumference is outside the typical range")
}

func TestCreatePatientValidation(t *testing.T) {
	t.Parallel()

	valid := func() url.Values {
		return url.Values{
			"first_name": {"Ava"},
			"last_name":  {"Brown"},
			"birth_date": {birthDateMonthsAgo(3).Format("2006-01-02")},
		}
	}

	tests := []struct {
		name    string
		mutate  func(url.Values)
		message string
	}{
		{
			name:    "missing first name",
			mutate:  func(v url.Values) { v.Set("first_name", "  ") },
			message: "First and last name are required",
		},
		{
			name:    "missing last name",
			mutate:  func(v url.Values) { v.Del("last_name") },
			message: "First and last name are required",
		},
		{
			name:    "missing birth date",
			mutate:  func(v url.Values) { v.Del("birth_date") },
			message: "Birth date must be a valid date",
		},
		{
			name:    "malformed birth date",
			mutate:  func(v url.Values) { v.Set("birth_date", "yesterday") },
			message: "Birth date must be a valid date",
		},
		{
			name:    "future birth date",
			mutate:  func(v url.Values) { v.Set("birth_date", time.Now().AddDate(0, 0, 2).Format("2006-01-02")) },
			message: "Birth date cannot be in the future",
		},
		{
			name:    "birth size too large",
			mutate:  func(v url.Values) { v.Set("birth_head_circumference", "55") },
			message: "Birth head circumference must be between 20 and 50 cm",
		},
		{
			name:    "birth size not a number",
			mutate:  func(v url.Values) { v.Set("birth_head_circumference", "big") },
			message: "Birth head circumference must be between 20 and 50 cm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := newTestApp(t)
			store := app.signIn(t)

			form := valid()
			tt.mutate(form)

			rec := app.post(t, "/patient/new", form)
			assertRedirect(t, rec, http.StatusSeeOther, "/patient/new")
			assertFlash(t, app.session, FlashError, tt.message)

			if store.Count() != 0 {
				t.Fatalf("expected no patient to be created, got %d", store.Count())
			}
		})
	}
}

func TestViewPatientRendersChart(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	store := app.signIn(t)

	birth := birthDateMonthsAgo(4)
	mustAddPatient(t, store, db.Patient{
		ID:        "p1",
		FirstName: "Ava",
		LastName:  "Brown",
		BirthDate: birth,
		Measurements: []db.Measurement{
			{Date: birth.AddDate(0, 1, 0), Size: 37.5},
			{Date: birth.AddDate(0, 3, 0), Size: 39.6},
		},
	})

	app.get(t, "/patient/p1")
	assertRendered(t, app, "patient_view", http.StatusOK)

	chart, ok := app.data["Chart"].(htmltemplate.HTML)
	if !ok || chart == "" {
		t.Fatalf("expected rendered chart, got %T", app.data["Chart"])
	}

	latest, ok := app.data["Latest"].(*db.Measurement)
	if !ok || latest == nil || latest.Size != 39.6 {
		t.Fatalf("expected latest measurement 39.6, got %#v", app.data["Latest"])
	}
}

func TestViewPatientWithoutMeasurementsHasNoChart(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	store := app.signIn(t)
	mustAddPatient(t, store, db.Patient{ID: "p1", FirstName: "Ava", LastName: "Brown", BirthDate: birthDateMonthsAgo(1)})

	app.get(t, "/patient/p1")
	assertRendered(t, app, "patient_view", http.StatusOK)

	if _, ok := app.data["Chart"]; ok {
		t.Fatal("expected no chart without measurements")
	}
}

func TestViewPatientUnknownRedirects(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	app.signIn(t)

	rec := app.get(t, "/patient/missing")
	assertRedirect(t, rec, http.StatusSeeOther, "/")
	assertFlash(t, app.session, FlashError, "Patient not found")
}

func TestUpdatePatient(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	store := app.signIn(t)

	birth := birthDateMonthsAgo(2)
	recorded := 35.1
	mustAddPatient(t, store, db.Patient{
		ID:                     "p1",
		FirstName:              "Ava",
		LastName:               "Brown",
		BirthDate:              birth,
		BirthHeadCircumference: &recorded,
	})

	rec := app.post(t, "/patient/p1/edit", url.Values{
		"first_name": {"Avery"},
		"last_name":  {"Browne"},
		"birth_date": {"2001-01-01"},
	})
	assertRedirect(t, rec, http.StatusSeeOther, "/patient/p1")
	assertFlash(t, app.session, FlashSuccess, "Patient updated successfully")

	patient, err := store.GetPatient(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get patient: %v", err)
	}

	if patient.FullName() != "Avery Browne" {
		t.Fatalf("expected updated name, got %q", patient.FullName())
	}

	if !patient.BirthDate.Equal(birth) {
		t.Fatalf("expected birth date to be unchanged, got %v", patient.BirthDate)
	}

	if patient.BirthHeadCircumference == nil || *patient.BirthHeadCircumference != 35.1 {
		t.Fatalf("expected recorded birth size to be kept, got %v", patient.BirthHeadCircumference)
	}
}

func TestUpdatePatientValidation(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	store := app.signIn(t)
	mustAddPatient(t, store, db.Patient{ID: "p1", FirstName: "Ava", LastName: "Brown", BirthDate: birthDateMonthsAgo(2)})

	rec := app.post(t, "/patient/p1/edit", url.Values{"first_name": {"Ava"}, "last_name": {""}})
	assertRedirect(t, rec, http.StatusSeeOther, "/patient/p1/edit")
	assertFlash(t, app.session, FlashError, "First and last name are required")

	rec = app.post(t, "/patient/missing/edit", url.Values{"first_name": {"Ava"}, "last_name": {"Brown"}})
	assertRedirect(t, rec, http.StatusSeeOther, "/")
	assertFlash(t, app.session, FlashError, "Patient not found")
}

func TestEditPatientFormRenders(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	store := app.signIn(t)
	mustAddPatient(t, store, db.Patient{ID: "p1", FirstName: "Ava", LastName: "Brown", BirthDate: birthDateMonthsAgo(2)})

	app.get(t, "/patient/p1/edit")
	assertRendered(t, app, "patient_edit", http.StatusOK)

	crumbs, ok := app.data["Breadcrumbs"].([]BreadcrumbItem)
	if !ok || len(crumbs) != 3 || crumbs[1].URL != "/patient/p1" {
		t.Fatalf("unexpected breadcrumbs: %#v", app.data["Breadcrumbs"])
	}
}

func TestSettingsShowsAccount(t *testing.T) {
	t.Parallel()

	app := newTestApp(t)
	store := app.signIn(t)
	mustAddPatient(t, store, db.Patient{ID: "p1", FirstName: "Ava", LastName: "Brown", BirthDate: birthDateMonthsAgo(2)})

	app.get(t, "/settings")
	assertRendered(t, app, "settings", http.StatusOK)

	account, ok := app.data["Account"].(db.User)
	if !ok || account.Email != "sam@example.com" {
		t.Fatalf("unexpected account: %#v", app.data["Account"])
	}

	if app.data["IsPremium"] != false || app.data["PatientCount"] != 1 {
		t.Fatalf("unexpected settings data: %v %v", app.data["IsPremium"], app.data["PatientCount"])
	}
}

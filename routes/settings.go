/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"

	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/headcircle/db"
)

// Settings renders the account page.
func Settings(s session.Session, store *db.Store, t template.Template, data template.Data) {
	data["IsSettings"] = true
	data["Breadcrumbs"] = []BreadcrumbItem{
		{Name: "Settings", URL: "/settings", IsCurrent: true},
	}

	user, ok := sessionUser(s)
	if !ok {
		logger.Warn("Settings requested without a session user")
	}

	data["Account"] = user
	data["IsPremium"] = user.Plan == db.PlanPremium
	data["PatientCount"] = store.Count()

	t.HTML(http.StatusOK, "settings")
}

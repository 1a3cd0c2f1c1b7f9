/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"

	"github.com/humaidq/headcircle/db"
)

// Session keys holding the signed-in user.
const (
	sessionAuthenticated = "authenticated"
	sessionUserID        = "user_id"
	sessionUserName      = "user_display_name"
	sessionUserEmail     = "user_email"
	sessionUserPicture   = "user_picture"
	sessionUserPlan      = "user_plan"
	sessionUserCreatedAt = "user_created_at"
	sessionOAuthState    = "oauth_state"
)

// UserContextInjector exposes the signed-in user to templates.
func UserContextInjector() flamego.Handler {
	return func(s session.Session, data template.Data) {
		authenticated, _ := s.Get(sessionAuthenticated).(bool)
		data["IsAuthenticated"] = authenticated
		if !authenticated {
			return
		}

		if user, ok := sessionUser(s); ok {
			data["User"] = user
		}
	}
}

func setAuthenticatedSession(s session.Session, user *db.User) {
	s.Set(sessionAuthenticated, true)
	s.Set(sessionUserID, user.ID)
	s.Set(sessionUserName, user.Name)
	s.Set(sessionUserEmail, user.Email)
	s.Set(sessionUserPicture, user.Picture)
	s.Set(sessionUserPlan, string(user.Plan))

	if !user.CreatedAt.IsZero() {
		s.Set(sessionUserCreatedAt, user.CreatedAt.Unix())
	}
}

func clearAuthenticatedSession(s session.Session) {
	s.Delete(sessionAuthenticated)
	s.Delete(sessionUserID)
	s.Delete(sessionUserName)
	s.Delete(sessionUserEmail)
	s.Delete(sessionUserPicture)
	s.Delete(sessionUserPlan)
	s.Delete(sessionUserCreatedAt)
	s.Delete(sessionOAuthState)
}

func getSessionUserID(s session.Session) (string, bool) {
	if userID, ok := s.Get(sessionUserID).(string); ok && userID != "" {
		return userID, true
	}

	return "", false
}

// sessionUser rebuilds the user stored in the session.
func sessionUser(s session.Session) (db.User, bool) {
	userID, ok := getSessionUserID(s)
	if !ok {
		return db.User{}, false
	}

	user := db.User{ID: userID, Plan: db.PlanFree}
	user.Name, _ = s.Get(sessionUserName).(string)
	user.Email, _ = s.Get(sessionUserEmail).(string)
	user.Picture, _ = s.Get(sessionUserPicture).(string)

	if plan, ok := s.Get(sessionUserPlan).(string); ok && plan != "" {
		user.Plan = db.Plan(plan)
	}

	if createdAt, ok := s.Get(sessionUserCreatedAt).(int64); ok {
		user.CreatedAt = time.Unix(createdAt, 0)
	}

	return user, true
}

/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/humaidq/headcircle/db"
)

// maxErrorBody bounds how much of a failed response is kept for the error.
const maxErrorBody = 4096

// UserService exchanges a Google id token for the practitioner's account at
// the backend user service.
type UserService struct {
	baseURL    string
	httpClient *http.Client
}

// NewUserService returns a client for the user service at baseURL. A nil
// httpClient uses a client with a 10 second timeout.
func NewUserService(baseURL string, httpClient *http.Client) *UserService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &UserService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type loginRequest struct {
	IDToken string `json:"id_token"`
}

type userResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Picture   string `json:"picture"`
	Plan      string `json:"plan"`
	CreatedAt string `json:"createdAt"`
}

// Login posts the id token to /users/login and returns the account.
func (u *UserService) Login(ctx context.Context, idToken string) (*db.User, error) {
	body, err := json.Marshal(loginRequest{IDToken: idToken})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	endpoint := u.baseURL + "/users/login"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	logger.Debug("Logging in with user service", "endpoint", endpoint)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach user service: %w", err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn("Failed to close user service response", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Error("User service login failed",
			"status", resp.StatusCode,
			"body", strings.TrimSpace(string(detail)),
		)

		return nil, fmt.Errorf("%w: %s", ErrLoginRejected, resp.Status)
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode user service response: %w", err)
	}

	return payload.toUser(), nil
}

func (r userResponse) toUser() *db.User {
	user := &db.User{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Picture: r.Picture,
		Plan:    parsePlan(r.Plan),
	}

	if r.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339, r.CreatedAt)
		if err != nil {
			logger.Warn("Unparseable createdAt from user service", "value", r.CreatedAt, "error", err)
		} else {
			user.CreatedAt = createdAt
		}
	}

	return user
}

func parsePlan(value string) db.Plan {
	if db.Plan(strings.ToLower(strings.TrimSpace(value))) == db.PlanPremium {
		return db.PlanPremium
	}

	return db.PlanFree
}

// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/humaidq/headcircle/db"
)

var csrfFieldPattern = regexp.MustCompile(`name="_csrf" value="([^"]+)"`)

// browser keeps cookies between requests and does not follow redirects, so
// each hop of a flow can be checked against the real session store.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T) *browser {
	t.Helper()

	cfg := validWebConfig()
	cfg.BaseURL = "http://127.0.0.1"

	f, err := newWebApp(cfg, stubAuthenticator{}, db.NewRegistry(true))
	if err != nil {
		t.Fatalf("build web app: %v", err)
	}

	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}

	return &browser{
		t:    t,
		base: srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()

	resp, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read body: %v", err)
	}

	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()

	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	if err != nil {
		b.t.Fatalf("new request: %v", err)
	}

	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()

	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		b.t.Fatalf("new request: %v", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return b.do(req)
}

func (b *browser) signIn() {
	b.t.Helper()

	resp, _ := b.get("/auth/google")
	if resp.StatusCode != http.StatusFound {
		b.t.Fatalf("expected status %d from /auth/google, got %d", http.StatusFound, resp.StatusCode)
	}

	location, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		b.t.Fatalf("parse location: %v", err)
	}

	state := location.Query().Get("state")
	if state == "" {
		b.t.Fatal("expected state in authorization redirect")
	}

	resp, _ = b.get("/auth/google/callback?code=auth-code&state=" + url.QueryEscape(state))
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		b.t.Fatalf("expected 303 to /, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func expectPage(t *testing.T, resp *http.Response, body string, want ...string) {
	t.Helper()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("%s: expected status %d, got %d (location %q)", resp.Request.URL.Path, http.StatusOK, resp.StatusCode, resp.Header.Get("Location"))
	}

	for _, s := range want {
		if !strings.Contains(body, s) {
			t.Fatalf("%s: expected page to contain %q", resp.Request.URL.Path, s)
		}
	}
}

func TestWebAppSignInKeepsSession(t *testing.T) {
	t.Parallel()

	b := newBrowser(t)
	b.signIn()

	resp, body := b.get("/")
	expectPage(t, resp, body, "Patients", "Emma Johnson", "Noah Williams")

	resp, body = b.get("/settings")
	expectPage(t, resp, body, "Settings", "Free", "<dd>2</dd>")
}

func TestWebAppRendersPatientPages(t *testing.T) {
	t.Parallel()

	b := newBrowser(t)
	b.signIn()

	resp, body := b.get("/patient/1")
	expectPage(t, resp, body, "Emma Johnson", "History", "41.5 cm", "echarts")

	resp, body = b.get("/patient/1/measurement/0")
	expectPage(t, resp, body, "41.5 cm", "Percentile", "75th-95th", "Recorded birth size", "35.2 cm")

	resp, body = b.get("/patient/1/edit")
	expectPage(t, resp, body, "Emma", "35.2")
}

func TestWebAppRecordsMeasurement(t *testing.T) {
	t.Parallel()

	b := newBrowser(t)
	b.signIn()

	resp, body := b.get("/patient/1/measurement/new")
	expectPage(t, resp, body, "Emma Johnson")

	match := csrfFieldPattern.FindStringSubmatch(body)
	if match == nil {
		t.Fatal("expected csrf token in measurement form")
	}

	resp, body = b.post("/patient/1/measurement/new", url.Values{
		"_csrf": {html.UnescapeString(match[1])},
		"size":  {"44,5"},
	})
	expectPage(t, resp, body, "44.5 cm", "Percentile")

	resp, body = b.get("/patient/1")
	expectPage(t, resp, body, "44.5 cm")
}

func TestWebAppRejectsMeasurementWithoutCSRFToken(t *testing.T) {
	t.Parallel()

	b := newBrowser(t)
	b.signIn()

	resp, _ := b.post("/patient/1/measurement/new", url.Values{"size": {"44.5"}})
	if resp.StatusCode == http.StatusOK {
		t.Fatal("expected the measurement to be rejected without a csrf token")
	}
}

func TestWebAppLogoutEndsSession(t *testing.T) {
	t.Parallel()

	b := newBrowser(t)
	b.signIn()

	resp, _ := b.get("/logout")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/auth/signin" {
		t.Fatalf("expected 303 to /auth/signin, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, _ = b.get("/")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/auth/signin" {
		t.Fatalf("expected 302 to /auth/signin, got %d to %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

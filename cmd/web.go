/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/flamego/csrf"
	"github.com/flamego/flamego"
	"github.com/flamego/session"
	"github.com/flamego/template"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/headcircle/auth"
	"github.com/humaidq/headcircle/db"
	"github.com/humaidq/headcircle/routes"
	"github.com/humaidq/headcircle/static"
	"github.com/humaidq/headcircle/templates"
)

const (
	sessionCookieName = "headcircle_session"
	sessionLifetime   = 12 * time.Hour
	shutdownTimeout   = 10 * time.Second
)

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "port",
			Value: "8080",
			Usage: "the web server port",
		},
		&cli.StringFlag{
			Name:    "base-url",
			Sources: cli.EnvVars("BASE_URL"),
			Usage:   "public URL of this server, used for the OAuth redirect (e.g., https://headcircle.example.com)",
		},
		&cli.StringFlag{
			Name:    "google-client-id",
			Sources: cli.EnvVars("GOOGLE_CLIENT_ID"),
			Usage:   "Google OAuth client id",
		},
		&cli.StringFlag{
			Name:    "google-client-secret",
			Sources: cli.EnvVars("GOOGLE_CLIENT_SECRET"),
			Usage:   "Google OAuth client secret",
		},
		&cli.StringFlag{
			Name:    "api-url",
			Sources: cli.EnvVars("API_URL"),
			Usage:   "base URL of the user service; accounts are built from Google profiles when unset",
		},
		&cli.StringFlag{
			Name:    "csrf-secret",
			Sources: cli.EnvVars("CSRF_SECRET"),
			Usage:   "secret used to sign CSRF tokens",
		},
		&cli.BoolFlag{
			Name:  "strict-ids",
			Usage: "reject patients whose id is already in use",
		},
		&cli.BoolFlag{
			Name:  "seed",
			Value: true,
			Usage: "populate new sessions with demonstration patients",
		},
	},
	Action: start,
}

// webConfig is the validated configuration of the web server.
type webConfig struct {
	Port               string
	BaseURL            string
	GoogleClientID     string
	GoogleClientSecret string
	APIURL             string
	CSRFSecret         string
	StrictIDs          bool
	Seed               bool
}

func webConfigFromCommand(cmd *cli.Command) webConfig {
	return webConfig{
		Port:               cmd.String("port"),
		BaseURL:            strings.TrimRight(strings.TrimSpace(cmd.String("base-url")), "/"),
		GoogleClientID:     strings.TrimSpace(cmd.String("google-client-id")),
		GoogleClientSecret: strings.TrimSpace(cmd.String("google-client-secret")),
		APIURL:             strings.TrimSpace(cmd.String("api-url")),
		CSRFSecret:         cmd.String("csrf-secret"),
		StrictIDs:          cmd.Bool("strict-ids"),
		Seed:               cmd.Bool("seed"),
	}
}

func (c webConfig) validate() error {
	if c.BaseURL == "" {
		return errBaseURLRequired
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errInvalidBaseURL
	}

	switch {
	case c.GoogleClientID == "":
		return errClientIDRequired
	case c.GoogleClientSecret == "":
		return errClientSecretRequired
	case c.CSRFSecret == "":
		return errCSRFSecretRequired
	}

	return nil
}

func (c webConfig) redirectURL() string {
	return c.BaseURL + "/auth/google/callback"
}

func (c webConfig) secureCookies() bool {
	return strings.HasPrefix(c.BaseURL, "https://")
}

func (c webConfig) storeOptions() []db.StoreOption {
	if c.StrictIDs {
		return []db.StoreOption{db.WithStrictIDs()}
	}

	return nil
}

func start(ctx context.Context, cmd *cli.Command) error {
	cfg := webConfigFromCommand(cmd)
	if err := cfg.validate(); err != nil {
		return err
	}

	provider, err := auth.NewProvider(auth.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.redirectURL(),
		APIURL:       cfg.APIURL,
	})
	if err != nil {
		return fmt.Errorf("failed to configure google sign-in: %w", err)
	}

	if cfg.APIURL == "" {
		appLogger.Warn("API_URL is not set; accounts are built from Google profiles")
	}

	registry := db.NewRegistry(cfg.Seed, cfg.storeOptions()...)
	registry.SetIdleTimeout(sessionLifetime)

	f, err := newWebApp(cfg, provider, registry)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%s", cfg.Port),
		Handler:           f,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ErrorLog:          serverStdLogger,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)

	go func() {
		appLogger.Info("Starting web server", "port", cfg.Port, "base_url", cfg.BaseURL, "seed", cfg.Seed, "strict_ids", cfg.StrictIDs)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}

	return nil
}

// newWebApp assembles the middleware stack and routes.
func newWebApp(cfg webConfig, authenticator routes.Authenticator, registry *db.Registry) (*flamego.Flame, error) {
	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(routes.NoCacheHeaders())
	f.Use(session.Sessioner(session.Options{
		Config: session.MemoryConfig{
			Lifetime: sessionLifetime,
		},
		Cookie: session.CookieOptions{
			Name:     sessionCookieName,
			Path:     "/",
			HTTPOnly: true,
			Secure:   cfg.secureCookies(),
			SameSite: http.SameSiteLaxMode,
		},
	}))
	f.Use(routes.RequestLogger)
	f.Use(csrf.Csrfer(csrf.Options{
		Secret: cfg.CSRFSecret,
	}))
	f.Use(template.Templater(template.Options{
		FileSystem: fs,
		FuncMaps:   []htmltemplate.FuncMap{routes.TemplateFuncs()},
	}))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
	}))
	f.Use(routes.CSRFInjector())
	f.Use(routes.FlashInjector())
	f.Use(routes.UserContextInjector())

	f.MapTo(authenticator, (*routes.Authenticator)(nil))
	f.Map(registry)

	routes.ConfigureNotFound(f)

	// Public routes (no authentication required)
	f.Get("/auth/signin", routes.SignInPage)
	f.Get("/auth/google", routes.GoogleSignIn)
	f.Get("/auth/google/callback", routes.GoogleCallback)
	f.Get("/auth/error", routes.AuthError)
	f.Get("/logout", routes.Logout)

	// Protected routes (require authentication)
	f.Group("", func() {
		f.Get("/", routes.ListPatients)
		f.Get("/settings", routes.Settings)

		f.Get("/patient/new", routes.NewPatientForm)
		f.Post("/patient/new", csrf.Validate, routes.CreatePatient)
		f.Get("/patient/{id}", routes.ViewPatient)
		f.Get("/patient/{id}/edit", routes.EditPatientForm)
		f.Post("/patient/{id}/edit", csrf.Validate, routes.UpdatePatient)

		f.Get("/patient/{id}/measurement/new", routes.NewMeasurementForm)
		f.Post("/patient/{id}/measurement/new", csrf.Validate, routes.CreateMeasurement)
		f.Get("/patient/{id}/measurement/{index}", routes.ViewMeasurement)
	}, routes.RequireAuth)

	return f, nil
}

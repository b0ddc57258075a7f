// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP surface of the application: JSON
// endpoints for authentication, project lifecycle, account management and
// the client dashboard, plus upload serving and health checks.
package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/sitework-go/internal/blob"
	"github.com/olegiv/sitework-go/internal/cache"
	"github.com/olegiv/sitework-go/internal/middleware"
	"github.com/olegiv/sitework-go/internal/service"
)

// Handler carries the services behind the HTTP surface.
type Handler struct {
	db        *sql.DB
	sm        *scs.SessionManager
	auth      *service.Authenticator
	accounts  *service.Accounts
	projects  *service.Projects
	status    *service.Status
	events    *service.EventService
	counts    *cache.Counts
	login     *middleware.LoginProtection
	blobs     *blob.DiskStore
	startTime time.Time
}

// Config bundles the dependencies for New.
type Config struct {
	DB              *sql.DB
	SessionManager  *scs.SessionManager
	Authenticator   *service.Authenticator
	Accounts        *service.Accounts
	Projects        *service.Projects
	Status          *service.Status
	Events          *service.EventService
	Counts          *cache.Counts
	LoginProtection *middleware.LoginProtection
	Blobs           *blob.DiskStore
}

// New creates the HTTP handler set.
func New(cfg Config) *Handler {
	return &Handler{
		db:        cfg.DB,
		sm:        cfg.SessionManager,
		auth:      cfg.Authenticator,
		accounts:  cfg.Accounts,
		projects:  cfg.Projects,
		status:    cfg.Status,
		events:    cfg.Events,
		counts:    cfg.Counts,
		login:     cfg.LoginProtection,
		blobs:     cfg.Blobs,
		startTime: time.Now(),
	}
}

// Routes builds the application router. Session loading and identity
// resolution wrap everything; per-operation authorization happens inside
// the handlers.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(h.sm.LoadAndSave)
	r.Use(middleware.LoadIdentity(h.sm, h.db))

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(h.login.Middleware())
		r.Post("/login", h.Login)
	})
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", h.GetProject)
				r.Put("/", h.UpdateProject)
				r.Delete("/", h.DeleteProject)
				r.Post("/status", h.AppendStatus)
				r.Post("/logs", h.AppendLog)
				r.Post("/images", h.UploadImages)
			})
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", h.ListAccounts)
			r.Post("/", h.AddAccount)
			r.Post("/{accountID}/toggle", h.ToggleAccount)
			r.Post("/{accountID}/reset-password", h.ResetAccountPassword)
		})

		r.Get("/dashboard", h.Dashboard)
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)

		r.Get("/uploads/{filename}", h.ServeUpload)
		r.Get("/uploads/thumbs/{filename}", h.ServeThumb)
	})

	return r
}

func clientIP(r *http.Request) string {
	return r.RemoteAddr
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/sitework-go/internal/middleware"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/policy"
	"github.com/olegiv/sitework-go/internal/store"
)

// Dashboard handles GET /dashboard. Admins see totals, all projects and
// recent audit events; clients see their own projects only.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r)

	if ident.IsAdmin() {
		h.adminDashboard(w, r)
		return
	}

	projects, err := h.projects.ListForClient(r.Context(), ident.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{
		"role":     model.RoleClient,
		"projects": projects,
	})
}

func (h *Handler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	projectCount, err := h.counts.Projects(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	clientCount, err := h.counts.Clients(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	projects, err := h.projects.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	events, err := store.New(h.db).ListRecentEvents(ctx, 20)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSONSuccess(w, map[string]any{
		"role":          model.RoleAdmin,
		"project_count": projectCount,
		"client_count":  clientCount,
		"projects":      projects,
		"recent_events": eventViews(events),
	})
}

// eventView is the JSON shape of an audit event on the admin dashboard.
type eventView struct {
	ID        int64  `json:"id"`
	Level     string `json:"level"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	AccountID int64  `json:"account_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

func eventViews(events []model.Event) []eventView {
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		v := eventView{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if e.AccountID.Valid {
			v.AccountID = e.AccountID.Int64
		}
		views = append(views, v)
	}
	return views
}

// GetProfile handles GET /profile: an account's own details.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r)
	if !policy.Authorize(ident, policy.OpProfileRead, &policy.Resource{AccountID: ident.AccountID}) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	account, err := h.accounts.Get(r.Context(), ident.AccountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"account": account})
}

type updateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// UpdateProfile handles PUT /profile: an account editing its own mutable
// fields. Email and role are not editable.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r)
	if !policy.Authorize(ident, policy.OpProfileUpdate, &policy.Resource{AccountID: ident.AccountID}) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.accounts.UpdateProfile(r.Context(), ident.AccountID, req.Name, req.Phone, req.Address); err != nil {
		writeError(w, err)
		return
	}
	writeJSONSuccess(w, nil)
}

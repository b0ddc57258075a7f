// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitework-go/internal/middleware"
	"github.com/olegiv/sitework-go/internal/policy"
	"github.com/olegiv/sitework-go/internal/service"
)

func accountIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	return id, err == nil && id > 0
}

// ListAccounts handles GET /accounts (admin only). Admin accounts are not
// included in the listing.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpAccountList, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"accounts": accounts})
}

type addAccountRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// AddAccount handles POST /accounts (admin only).
func (h *Handler) AddAccount(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpAccountCreate, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req addAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.accounts.Add(r.Context(), service.AddAccountParams{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.counts.Invalidate(r.Context())

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "account_id": id})
}

// ToggleAccount handles POST /accounts/{accountID}/toggle (admin only).
func (h *Handler) ToggleAccount(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpAccountToggle, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	id, ok := accountIDParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	disabled, err := h.accounts.ToggleDisabled(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"disabled": disabled})
}

// ResetAccountPassword handles POST /accounts/{accountID}/reset-password
// (admin only). The new password appears in this response and nowhere else.
func (h *Handler) ResetAccountPassword(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpAccountReset, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	id, ok := accountIDParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	newPassword, err := h.accounts.ResetPassword(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"new_password": newPassword})
}

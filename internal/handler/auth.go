// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/sitework-go/internal/middleware"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/policy"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /login. Lockout checks happen before credentials are
// verified; both unknown email and wrong password count against the lockout
// so accounts cannot be enumerated.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpLogin, nil) {
		writeJSONError(w, http.StatusForbidden, "already authenticated")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if locked, remaining := h.login.IsAccountLocked(req.Email); locked {
		h.events.LogAuth(r.Context(), model.EventLevelWarning, "login attempt on locked account", 0, clientIP(r), map[string]any{"email": req.Email})
		writeJSONError(w, http.StatusTooManyRequests,
			fmt.Sprintf("account locked, try again in %s", formatDuration(remaining)))
		return
	}

	ident, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			if locked, lockDuration := h.login.RecordFailedAttempt(req.Email); locked {
				writeJSONError(w, http.StatusTooManyRequests,
					fmt.Sprintf("too many failed attempts, locked for %s", formatDuration(lockDuration)))
				return
			}
		}
		writeError(w, err)
		return
	}

	h.login.RecordSuccessfulLogin(req.Email)

	// Regenerate session ID to prevent session fixation.
	if err := h.sm.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.sm.Put(r.Context(), middleware.SessionKeyAccountID, ident.AccountID)

	writeJSONSuccess(w, map[string]any{
		"account_id": ident.AccountID,
		"email":      ident.Email,
		"role":       ident.Role,
	})
}

// Logout handles POST /logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ident := middleware.GetIdentity(r)
	if err := h.sm.Destroy(r.Context()); err != nil {
		slog.Error("session destroy failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if ident != nil {
		h.events.LogAuth(r.Context(), model.EventLevelInfo, "logout", ident.AccountID, clientIP(r), nil)
	}
	writeJSONSuccess(w, nil)
}

func formatDuration(d time.Duration) string {
	if d >= time.Hour {
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%dm", int(d.Minutes())+1)
	}
	return fmt.Sprintf("%ds", int(d.Seconds())+1)
}

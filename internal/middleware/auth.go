// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// login protection, CSRF and security headers.
package middleware

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyIdentity holds the authenticated identity for the request.
const ContextKeyIdentity ContextKey = "identity"

// SessionKeyAccountID is the session key holding the authenticated account id.
const SessionKeyAccountID = "account_id"

// LoadIdentity creates middleware that resolves the session's account into a
// request identity. A session pointing at a deleted or disabled account is
// destroyed and the request continues unauthenticated.
func LoadIdentity(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID := sm.GetInt64(r.Context(), SessionKeyAccountID)
			if accountID == 0 {
				next.ServeHTTP(w, r)
				return
			}

			account, err := queries.GetAccountByID(r.Context(), accountID)
			if err != nil || account.Disabled {
				_ = sm.Destroy(r.Context())
				next.ServeHTTP(w, r)
				return
			}

			ident := model.Identity{
				AccountID: account.ID,
				Email:     account.Email,
				Role:      account.Role,
			}
			ctx := context.WithValue(r.Context(), ContextKeyIdentity, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity retrieves the authenticated identity from the request context.
// Returns nil for anonymous requests.
func GetIdentity(r *http.Request) *model.Identity {
	ident, ok := r.Context().Value(ContextKeyIdentity).(model.Identity)
	if !ok {
		return nil
	}
	return &ident
}

// RequireAuth creates middleware that rejects unauthenticated requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r) == nil {
			writeJSONError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":` + quoteJSON(message) + `}`))
}

func quoteJSON(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\':
			out = append(out, '\\', s[i])
		default:
			out = append(out, s[i])
		}
	}
	return string(append(out, '"'))
}

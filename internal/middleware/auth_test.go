// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
	"github.com/olegiv/sitework-go/internal/testutil"
)

// newSessionRequest builds a request carrying an active session with the
// given account id stored in it.
func newSessionRequest(t *testing.T, sm *scs.SessionManager, accountID int64) *http.Request {
	t.Helper()

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	if accountID != 0 {
		sm.Put(ctx, SessionKeyAccountID, accountID)
	}
	return httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
}

func TestLoadIdentity(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	sm := scs.New()
	id := testutil.CreateAccount(t, db, "asha@example.com", "Asha", "pw", model.RoleClient)

	var got *model.Identity
	handler := LoadIdentity(sm, db)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetIdentity(r)
	}))

	t.Run("authenticated", func(t *testing.T) {
		got = nil
		handler.ServeHTTP(httptest.NewRecorder(), newSessionRequest(t, sm, id))
		if got == nil {
			t.Fatal("expected identity in context")
		}
		if got.Email != "asha@example.com" || got.Role != model.RoleClient {
			t.Errorf("unexpected identity: %+v", got)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		got = nil
		handler.ServeHTTP(httptest.NewRecorder(), newSessionRequest(t, sm, 0))
		if got != nil {
			t.Errorf("expected nil identity, got %+v", got)
		}
	})

	t.Run("deleted account", func(t *testing.T) {
		got = nil
		handler.ServeHTTP(httptest.NewRecorder(), newSessionRequest(t, sm, 4242))
		if got != nil {
			t.Errorf("expected nil identity for missing account, got %+v", got)
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		if err := store.New(db).SetAccountDisabled(context.Background(), id, true, time.Now()); err != nil {
			t.Fatalf("disabling account: %v", err)
		}
		got = nil
		handler.ServeHTTP(httptest.NewRecorder(), newSessionRequest(t, sm, id))
		if got != nil {
			t.Errorf("expected nil identity for disabled account, got %+v", got)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("passes authenticated", func(t *testing.T) {
		ident := model.Identity{AccountID: 1, Email: "a@x.com", Role: model.RoleAdmin}
		ctx := context.WithValue(context.Background(), ContextKeyIdentity, ident)
		req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)

		rec := httptest.NewRecorder()
		RequireAuth(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/sitework-go/internal/auth"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
)

// Authenticator verifies login attempts and produces session identities.
// Each call is independent: no lockout or throttling lives here.
type Authenticator struct {
	queries *store.Queries
	events  *EventService
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(db *sql.DB, events *EventService) *Authenticator {
	return &Authenticator{
		queries: store.New(db),
		events:  events,
	}
}

// Login verifies the email/password pair and returns the session identity.
// An unknown email and a wrong password both return ErrInvalidCredentials so
// callers cannot enumerate accounts. A disabled account fails with
// ErrAccountDisabled before the credential is even compared.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	account, err := a.queries.GetAccountByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if account.Disabled {
		a.events.LogAuth(ctx, model.EventLevelWarning, "login attempt on disabled account", account.ID, "", nil)
		return nil, model.ErrAccountDisabled
	}

	ok, err := auth.CheckPassword(password, account.PasswordHash)
	if err != nil {
		slog.Error("password verification failed", "error", err, "account_id", account.ID)
		return nil, model.ErrInvalidCredentials
	}
	if !ok {
		a.events.LogAuth(ctx, model.EventLevelWarning, "failed login", account.ID, "", nil)
		return nil, model.ErrInvalidCredentials
	}

	a.events.LogAuth(ctx, model.EventLevelInfo, "login", account.ID, "", nil)

	return &model.Identity{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      account.Role,
	}, nil
}

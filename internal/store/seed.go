// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/sitework-go/internal/auth"
	"github.com/olegiv/sitework-go/internal/model"
)

// SeedAdmin ensures an admin account exists for the given email. A no-op
// when the account is already present. The password is hashed before
// storage; the cleartext is never logged.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string) error {
	queries := New(db)

	_, err := queries.GetAccountByEmail(ctx, email)
	if err == nil {
		slog.Debug("admin account already exists", "email", email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking admin account: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	now := time.Now()
	if _, err := queries.CreateAccount(ctx, CreateAccountParams{
		Email:        email,
		Name:         "Admin",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}

	slog.Info("admin account created", "email", email)
	return nil
}

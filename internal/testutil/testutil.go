// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the SiteWork project.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/sitework-go/internal/auth"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "sitework-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}
}

// CreateAccount inserts an account with the given role and password,
// returning its id.
func CreateAccount(t *testing.T, db *sql.DB, email, name, password, role string) int64 {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	now := time.Now()
	id, err := store.New(db).CreateAccount(context.Background(), store.CreateAccountParams{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("creating account: %v", err)
	}
	return id
}

// CreateProject inserts a project for the given client account, returning
// its id.
func CreateProject(t *testing.T, db *sql.DB, name string, clientID int64, clientEmail string) int64 {
	t.Helper()

	id, err := store.New(db).CreateProject(context.Background(), store.CreateProjectParams{
		Name:        name,
		Location:    "Test Site",
		Status:      model.StatusNotStarted,
		ClientID:    clientID,
		ClientName:  "Test Client",
		ClientEmail: clientEmail,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("creating project: %v", err)
	}
	return id
}

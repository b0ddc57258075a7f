// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store owns the SQLite datastore: connection setup, schema
// migrations and the query layer for accounts, projects and their
// append-only audit collections.
package store

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // SQLite driver for database/sql
)

//go:embed migrations/*.sql
var migrations embed.FS

// dsnPragmas tune SQLite for a mixed read/write workload: WAL keeps
// readers unblocked during status appends, and the busy timeout covers
// writer contention between request handlers and the scheduler. They go
// in the DSN so the driver applies them to every pooled connection —
// foreign_keys in particular must hold on all connections or the
// ON DELETE CASCADE cleanup of project history silently stops firing.
const dsnPragmas = "?_pragma=journal_mode(WAL)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=cache_size(-64000)" +
	"&_pragma=foreign_keys(1)" +
	"&_pragma=temp_store(MEMORY)"

// NewDB opens the SQLite database at path with the connection pragmas
// applied per connection. The caller owns the returned handle.
func NewDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Migrate applies all pending goose migrations from the embedded set.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

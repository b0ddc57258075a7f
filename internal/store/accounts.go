// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/sitework-go/internal/model"
)

const accountColumns = `id, email, name, password_hash, role, phone, address, disabled, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Role,
		&a.Phone, &a.Address, &a.Disabled, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateAccountParams holds the fields for a new account.
type CreateAccountParams struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateAccount inserts a new account and returns its generated id.
// The UNIQUE index on email rejects duplicates at the storage layer.
func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO accounts (email, name, password_hash, role, phone, address, disabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		arg.Email, arg.Name, arg.PasswordHash, arg.Role, arg.Phone, arg.Address,
		arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetAccountByID returns the account with the given id.
func (q *Queries) GetAccountByID(ctx context.Context, id int64) (model.Account, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// GetAccountByEmail returns the account with the given email.
func (q *Queries) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

// ListNonAdminAccounts returns all non-admin accounts, oldest first.
func (q *Queries) ListNonAdminAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE role != ? ORDER BY id`, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CountNonAdminAccounts returns the number of non-admin accounts.
func (q *Queries) CountNonAdminAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE role != ?`, model.RoleAdmin).Scan(&n)
	return n, err
}

// SetAccountDisabled sets the disabled flag on an account.
func (q *Queries) SetAccountDisabled(ctx context.Context, id int64, disabled bool, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET disabled = ?, updated_at = ? WHERE id = ?`,
		disabled, updatedAt, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateAccountPassword replaces an account's password hash.
func (q *Queries) UpdateAccountPassword(ctx context.Context, id int64, passwordHash string, updatedAt time.Time) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, updatedAt, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateAccountProfileParams holds the mutable profile fields.
type UpdateAccountProfileParams struct {
	ID        int64
	Name      string
	Phone     string
	Address   string
	UpdatedAt time.Time
}

// UpdateAccountProfile updates an account's own profile fields.
func (q *Queries) UpdateAccountProfile(ctx context.Context, arg UpdateAccountProfileParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, phone = ?, address = ?, updated_at = ? WHERE id = ?`,
		arg.Name, arg.Phone, arg.Address, arg.UpdatedAt, arg.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow converts a zero-rows-affected result into sql.ErrNoRows so
// callers can map it to their not-found error.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/olegiv/sitework-go/internal/auth"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
)

// Accounts implements admin account management: direct adds, enable/disable
// toggling and password resets.
type Accounts struct {
	queries *store.Queries
	events  *EventService
}

// NewAccounts creates a new Accounts service.
func NewAccounts(db *sql.DB, events *EventService) *Accounts {
	return &Accounts{
		queries: store.New(db),
		events:  events,
	}
}

// AddAccountParams holds the fields for a directly added account.
type AddAccountParams struct {
	Email    string
	Name     string
	Password string
	Role     string
	Phone    string
	Address  string
}

// Add creates an account with the given role and password.
func (s *Accounts) Add(ctx context.Context, arg AddAccountParams) (int64, error) {
	if _, err := mail.ParseAddress(arg.Email); err != nil {
		return 0, fmt.Errorf("%w: invalid email", model.ErrInvalidInput)
	}
	if arg.Name == "" || arg.Password == "" {
		return 0, fmt.Errorf("%w: name and password are required", model.ErrInvalidInput)
	}
	validRole := false
	for _, r := range model.ValidRoles {
		if arg.Role == r {
			validRole = true
			break
		}
	}
	if !validRole {
		return 0, fmt.Errorf("%w: unknown role %q", model.ErrInvalidInput, arg.Role)
	}

	_, err := s.queries.GetAccountByEmail(ctx, arg.Email)
	if err == nil {
		return 0, model.ErrDuplicateEmail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("checking email: %w", err)
	}

	hash, err := auth.HashPassword(arg.Password)
	if err != nil {
		return 0, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	id, err := s.queries.CreateAccount(ctx, store.CreateAccountParams{
		Email:        arg.Email,
		Name:         arg.Name,
		PasswordHash: hash,
		Role:         arg.Role,
		Phone:        arg.Phone,
		Address:      arg.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return 0, fmt.Errorf("creating account: %w", err)
	}

	s.events.LogAccount(ctx, model.EventLevelInfo, "account added", id, map[string]any{
		"email": arg.Email,
		"role":  arg.Role,
	})
	return id, nil
}

// List returns all non-admin accounts.
func (s *Accounts) List(ctx context.Context) ([]model.Account, error) {
	accounts, err := s.queries.ListNonAdminAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

// Get returns the account with the given id.
func (s *Accounts) Get(ctx context.Context, id int64) (*model.Account, error) {
	account, err := s.queries.GetAccountByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up account: %w", err)
	}
	return &account, nil
}

// ToggleDisabled flips an account's disabled flag and returns the new
// state. Admin accounts can never be disabled through this operation.
func (s *Accounts) ToggleDisabled(ctx context.Context, id int64) (bool, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if account.IsAdmin() {
		return false, fmt.Errorf("%w: admin accounts cannot be disabled", model.ErrForbidden)
	}

	newState := !account.Disabled
	if err := s.queries.SetAccountDisabled(ctx, id, newState, time.Now()); err != nil {
		return false, fmt.Errorf("toggling account: %w", err)
	}

	s.events.LogAccount(ctx, model.EventLevelInfo, "account toggled", id, map[string]any{
		"disabled": newState,
	})
	return newState, nil
}

// ResetPassword generates a fresh random password for a client account and
// returns it. The cleartext is surfaced exactly once to the caller; it is
// never logged or persisted. Admin passwords cannot be reset through this
// operation.
func (s *Accounts) ResetPassword(ctx context.Context, id int64) (string, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if account.IsAdmin() {
		return "", fmt.Errorf("%w: admin passwords cannot be reset here", model.ErrForbidden)
	}

	newPassword, err := auth.GenerateTempPassword(auth.ResetPasswordLen)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	if err := s.queries.UpdateAccountPassword(ctx, id, hash, time.Now()); err != nil {
		return "", fmt.Errorf("updating password: %w", err)
	}

	s.events.LogAccount(ctx, model.EventLevelInfo, "password reset", id, nil)
	return newPassword, nil
}

// UpdateProfile updates an account's own mutable profile fields.
func (s *Accounts) UpdateProfile(ctx context.Context, id int64, name, phone, address string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", model.ErrInvalidInput)
	}

	err := s.queries.UpdateAccountProfile(ctx, store.UpdateAccountProfileParams{
		ID:        id,
		Name:      name,
		Phone:     phone,
		Address:   address,
		UpdatedAt: time.Now(),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

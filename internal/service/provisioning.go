// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/sitework-go/internal/auth"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
)

// NewClientFields holds the details for provisioning a fresh client account.
type NewClientFields struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// ClientResolution is the result of resolving or provisioning a client.
// TempPassword is set only when a new account was created; it is surfaced
// here exactly once and is not retrievable afterwards.
type ClientResolution struct {
	AccountID    int64
	Snapshot     model.ClientSnapshot
	TempPassword string
}

// Provisioning resolves existing client accounts or creates new ones when a
// project references a client that does not yet exist.
type Provisioning struct {
	db      *sql.DB
	queries *store.Queries
	events  *EventService
}

// NewProvisioning creates a new Provisioning service.
func NewProvisioning(db *sql.DB, events *EventService) *Provisioning {
	return &Provisioning{
		db:      db,
		queries: store.New(db),
		events:  events,
	}
}

// ResolveClient resolves an existing account by id, or provisions a new
// client account from fields. Exactly one of existingID and fields must be
// provided. The returned snapshot is a point-in-time copy for embedding in
// the new project.
func (p *Provisioning) ResolveClient(ctx context.Context, existingID int64, fields *NewClientFields) (*ClientResolution, error) {
	if existingID != 0 {
		return p.resolveExisting(ctx, existingID)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: missing client details", model.ErrInvalidInput)
	}
	return p.provisionNew(ctx, fields)
}

func (p *Provisioning) resolveExisting(ctx context.Context, id int64) (*ClientResolution, error) {
	account, err := p.queries.GetAccountByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up client: %w", err)
	}

	return &ClientResolution{
		AccountID: account.ID,
		Snapshot: model.ClientSnapshot{
			ClientID:      account.ID,
			ClientName:    account.Name,
			ClientEmail:   account.Email,
			ClientPhone:   account.Phone,
			ClientAddress: account.Address,
		},
	}, nil
}

func (p *Provisioning) provisionNew(ctx context.Context, fields *NewClientFields) (*ClientResolution, error) {
	if fields.Email == "" || fields.Name == "" {
		return nil, fmt.Errorf("%w: client name and email are required", model.ErrInvalidInput)
	}

	_, err := p.queries.GetAccountByEmail(ctx, fields.Email)
	if err == nil {
		return nil, model.ErrDuplicateEmail
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	tempPassword, err := auth.GenerateTempPassword(auth.TempPasswordLen)
	if err != nil {
		return nil, fmt.Errorf("generating temporary password: %w", err)
	}

	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing temporary password: %w", err)
	}

	now := time.Now()
	accountID, err := p.queries.CreateAccount(ctx, store.CreateAccountParams{
		Email:        fields.Email,
		Name:         fields.Name,
		PasswordHash: hash,
		Role:         model.RoleClient,
		Phone:        fields.Phone,
		Address:      fields.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating client account: %w", err)
	}

	// Audit records the provisioning, never the cleartext password.
	p.events.LogAccount(ctx, model.EventLevelInfo, "client account provisioned", accountID, map[string]any{
		"email": fields.Email,
	})

	return &ClientResolution{
		AccountID: accountID,
		Snapshot: model.ClientSnapshot{
			ClientID:      accountID,
			ClientName:    fields.Name,
			ClientEmail:   fields.Email,
			ClientPhone:   fields.Phone,
			ClientAddress: fields.Address,
		},
		TempPassword: tempPassword,
	}, nil
}

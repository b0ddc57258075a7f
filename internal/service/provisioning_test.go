// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/sitework-go/internal/auth"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/testutil"
)

func TestResolveExistingClient(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	prov := NewProvisioning(db, NewEventService(db))

	id := testutil.CreateAccount(t, db, "asha@example.com", "Asha", "pw", model.RoleClient)

	res, err := prov.ResolveClient(ctx, id, nil)
	require.NoError(t, err)
	assert.Equal(t, id, res.AccountID)
	assert.Equal(t, "Asha", res.Snapshot.ClientName)
	assert.Equal(t, "asha@example.com", res.Snapshot.ClientEmail)
	assert.Empty(t, res.TempPassword, "no temp password for an existing account")
}

func TestResolveMissingClient(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	prov := NewProvisioning(db, NewEventService(db))

	_, err := prov.ResolveClient(context.Background(), 99, nil)
	assert.ErrorIs(t, err, model.ErrClientNotFound)
}

func TestProvisionNewClient(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	prov := NewProvisioning(db, NewEventService(db))

	res, err := prov.ResolveClient(ctx, 0, &NewClientFields{
		Name:    "Ravi",
		Email:   "ravi@example.com",
		Phone:   "555-0101",
		Address: "12 Hill Rd",
	})
	require.NoError(t, err)
	require.Len(t, res.TempPassword, auth.TempPasswordLen)
	assert.Equal(t, "Ravi", res.Snapshot.ClientName)
	assert.Equal(t, res.AccountID, res.Snapshot.ClientID)

	// The temp password is usable and the account carries the client role.
	authn := NewAuthenticator(db, NewEventService(db))
	ident, err := authn.Login(ctx, "ravi@example.com", res.TempPassword)
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, ident.Role)
}

func TestProvisionDuplicateEmail(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	prov := NewProvisioning(db, NewEventService(db))
	testutil.CreateAccount(t, db, "taken@example.com", "Existing", "pw", model.RoleClient)

	_, err := prov.ResolveClient(context.Background(), 0, &NewClientFields{
		Name:  "Dup",
		Email: "taken@example.com",
	})
	assert.ErrorIs(t, err, model.ErrDuplicateEmail)
}

func TestProvisionRequiresFields(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	prov := NewProvisioning(db, NewEventService(db))

	_, err := prov.ResolveClient(context.Background(), 0, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = prov.ResolveClient(context.Background(), 0, &NewClientFields{Name: "No Email"})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

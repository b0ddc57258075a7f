// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Account, Project, StatusUpdate and the error
// taxonomy shared by the service layer.
package model

import "time"

// Account roles.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// ValidRoles contains all valid account roles.
var ValidRoles = []string{RoleAdmin, RoleClient}

// Account represents a login-capable account: either an administrator or a
// project client. Client accounts are usually provisioned implicitly when a
// project is created for a new client.
type Account struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the account has the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsClient returns true if the account has the client role.
func (a *Account) IsClient() bool {
	return a.Role == RoleClient
}

// Identity is the transient session identity carried between login and
// logout. It is derived from the session cookie on every request and is
// never persisted itself.
type Identity struct {
	AccountID int64
	Email     string
	Role      string
}

// IsAdmin returns true if the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package policy implements the access control decision table. Authorize is
// a pure function of (role, operation, optional ownership) with no hidden
// state; every handler calls it explicitly before touching a resource.
package policy

import "github.com/olegiv/sitework-go/internal/model"

// Operation identifies a role-gated operation.
type Operation string

// Role-gated operations.
const (
	OpLogin Operation = "login"

	OpProjectList   Operation = "project.list"
	OpProjectRead   Operation = "project.read"
	OpProjectCreate Operation = "project.create"
	OpProjectUpdate Operation = "project.update"
	OpProjectDelete Operation = "project.delete"

	OpStatusAppend Operation = "status.append"
	OpLogAppend    Operation = "log.append"
	OpImageUpload  Operation = "image.upload"

	OpAccountList   Operation = "account.list"
	OpAccountCreate Operation = "account.create"
	OpAccountToggle Operation = "account.toggle"
	OpAccountReset  Operation = "account.reset_password"

	OpProfileRead   Operation = "profile.read"
	OpProfileUpdate Operation = "profile.update"
)

// Resource carries the ownership facts needed for client-scope decisions.
// OwnerEmail is the project's client_email snapshot; AccountID is the id of
// the account a profile operation targets.
type Resource struct {
	OwnerEmail string
	AccountID  int64
}

// Authorize returns true if the identity may perform the operation on the
// resource. A nil identity is an anonymous caller, permitted only to log in.
// Admins may do everything. Clients may read projects whose client_email
// matches their own email, and read or update their own profile.
func Authorize(ident *model.Identity, op Operation, res *Resource) bool {
	if ident == nil {
		return op == OpLogin
	}

	switch ident.Role {
	case model.RoleAdmin:
		return true
	case model.RoleClient:
		switch op {
		case OpLogin:
			return true
		case OpProjectRead:
			return res != nil && res.OwnerEmail == ident.Email
		case OpProfileRead, OpProfileUpdate:
			return res != nil && res.AccountID == ident.AccountID
		default:
			return false
		}
	default:
		return false
	}
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "errors"

// Error taxonomy shared across the service layer. Handlers map these to
// HTTP status codes; services return them wrapped with context via
// fmt.Errorf("...: %w", err).
var (
	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDisabled is returned when the matched account is disabled.
	ErrAccountDisabled = errors.New("account disabled")

	// ErrDuplicateEmail is returned when creating an account with an email
	// that already exists.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrClientNotFound is returned when an existing client id does not
	// resolve to a live account.
	ErrClientNotFound = errors.New("client not found")

	// ErrProjectNotFound is returned when a project id does not resolve.
	ErrProjectNotFound = errors.New("project not found")

	// ErrAccountNotFound is returned when an account id does not resolve.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidInput is returned for malformed numeric or enumerated fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned on policy denial. It is surfaced as an opaque
	// denial without detail on which check failed.
	ErrForbidden = errors.New("forbidden")

	// ErrStorageFailure is returned on blob or datastore I/O errors.
	ErrStorageFailure = errors.New("storage failure")
)

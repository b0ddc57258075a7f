// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Temporary password lengths.
const (
	// TempPasswordLen is used when provisioning a new client account.
	TempPasswordLen = 8
	// ResetPasswordLen is used when an admin resets a client's password.
	ResetPasswordLen = 10
)

const tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTempPassword returns a random alphanumeric password of n characters.
// The result is surfaced to the caller exactly once and must never be logged
// or persisted in cleartext.
func GenerateTempPassword(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid password length %d", n)
	}

	buf := make([]byte, n)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generating password: %w", err)
		}
		buf[i] = tempPasswordAlphabet[idx.Int64()]
	}

	return string(buf), nil
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("expected argon2id hash, got %q", hash)
	}

	// Hashing the same password twice must produce different hashes (random salt)
	hash2, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == hash2 {
		t.Error("expected different hashes for the same password")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := CheckPassword("correct-horse", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if !ok {
		t.Error("expected correct password to verify")
	}

	ok, err = CheckPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("CheckPassword: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail verification")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"garbage", "not-a-hash"},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated", "$argon2id$v=19$m=19456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := CheckPassword("anything", tt.hash); err == nil {
				t.Error("expected error for invalid hash")
			}
		})
	}
}

func TestGenerateTempPassword(t *testing.T) {
	pw, err := GenerateTempPassword(TempPasswordLen)
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}

	if len(pw) != TempPasswordLen {
		t.Errorf("len = %d, want %d", len(pw), TempPasswordLen)
	}

	for _, r := range pw {
		if !strings.ContainsRune(tempPasswordAlphabet, r) {
			t.Errorf("unexpected character %q in password", r)
		}
	}

	// Two generated passwords should differ
	pw2, err := GenerateTempPassword(TempPasswordLen)
	if err != nil {
		t.Fatalf("GenerateTempPassword: %v", err)
	}
	if pw == pw2 {
		t.Error("expected two generated passwords to differ")
	}
}

func TestGenerateTempPassword_InvalidLength(t *testing.T) {
	if _, err := GenerateTempPassword(0); err == nil {
		t.Error("expected error for zero length")
	}
	if _, err := GenerateTempPassword(-1); err == nil {
		t.Error("expected error for negative length")
	}
}

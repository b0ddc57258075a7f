// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/testutil"
)

func TestCountsCaching(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	backend := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer func() { _ = backend.Close() }()

	counts := NewCounts(backend, db)

	clientID := testutil.CreateAccount(t, db, "asha@example.com", "Asha", "pw", model.RoleClient)
	testutil.CreateProject(t, db, "Lakeside Villa", clientID, "asha@example.com")

	n, err := counts.Projects(ctx)
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if n != 1 {
		t.Errorf("Projects = %d, want 1", n)
	}

	// A second project without invalidation still reads the cached value.
	testutil.CreateProject(t, db, "Hill House", clientID, "asha@example.com")
	n, err = counts.Projects(ctx)
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if n != 1 {
		t.Errorf("Projects = %d, want cached 1", n)
	}

	counts.Invalidate(ctx)
	n, err = counts.Projects(ctx)
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if n != 2 {
		t.Errorf("Projects after invalidation = %d, want 2", n)
	}

	clients, err := counts.Clients(ctx)
	if err != nil {
		t.Fatalf("Clients: %v", err)
	}
	if clients != 1 {
		t.Errorf("Clients = %d, want 1", clients)
	}
}

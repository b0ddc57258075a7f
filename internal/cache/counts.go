// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/olegiv/sitework-go/internal/store"
)

const (
	keyProjectCount = "counts:projects"
	keyClientCount  = "counts:clients"

	countTTL = 5 * time.Minute
)

// Counts provides cached access to the dashboard counters. Counters are
// cheap to recompute, so they expire on a short TTL and are invalidated
// eagerly on writes.
type Counts struct {
	cache   Cache
	queries *store.Queries
}

// NewCounts creates a new counts cache over the given backend.
func NewCounts(c Cache, db *sql.DB) *Counts {
	return &Counts{cache: c, queries: store.New(db)}
}

// Projects returns the total number of projects.
func (c *Counts) Projects(ctx context.Context) (int64, error) {
	return c.get(ctx, keyProjectCount, c.queries.CountProjects)
}

// Clients returns the number of non-admin accounts.
func (c *Counts) Clients(ctx context.Context) (int64, error) {
	return c.get(ctx, keyClientCount, c.queries.CountNonAdminAccounts)
}

// Invalidate drops the cached counters. Called after any write that changes
// project or account counts.
func (c *Counts) Invalidate(ctx context.Context) {
	_ = c.cache.Delete(ctx, keyProjectCount)
	_ = c.cache.Delete(ctx, keyClientCount)
}

func (c *Counts) get(ctx context.Context, key string, load func(context.Context) (int64, error)) (int64, error) {
	if raw, err := c.cache.Get(ctx, key); err == nil {
		if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			return n, nil
		}
	}

	n, err := load(ctx)
	if err != nil {
		return 0, err
	}

	_ = c.cache.Set(ctx, key, []byte(strconv.FormatInt(n, 10)), countTTL)
	return n, nil
}

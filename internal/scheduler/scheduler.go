// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: purging old audit
// events and sweeping orphaned upload blobs.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/sitework-go/internal/blob"
	"github.com/olegiv/sitework-go/internal/store"
)

// Scheduler handles scheduled maintenance tasks.
type Scheduler struct {
	db             *sql.DB
	blobs          blob.Store
	cron           *cron.Cron
	logger         *slog.Logger
	eventRetention time.Duration
}

// New creates a new scheduler instance. eventRetention controls how long
// audit events are kept before the nightly purge removes them.
func New(db *sql.DB, blobs blob.Store, logger *slog.Logger, eventRetention time.Duration) *Scheduler {
	return &Scheduler{
		db:             db,
		blobs:          blobs,
		cron:           cron.New(),
		logger:         logger,
		eventRetention: eventRetention,
	}
}

// Start registers the maintenance jobs and begins the cron loop:
// event purge nightly at 03:00, orphaned blob sweep hourly.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.purgeOldEvents(); err != nil {
			s.logger.Error("event purge failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("30 * * * *", func() {
		if err := s.sweepOrphanedBlobs(); err != nil {
			s.logger.Error("orphan sweep failed", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// purgeOldEvents removes audit events older than the retention window.
func (s *Scheduler) purgeOldEvents() error {
	ctx := context.Background()
	cutoff := time.Now().Add(-s.eventRetention)

	deleted, err := store.New(s.db).DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		s.logger.Info("purged old events", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}

// sweepGrace protects blobs stored by an in-flight append whose recording
// transaction has not committed yet: such a blob is already on disk but not
// referenced, and deleting it would leave the committed row pointing at
// nothing. Anything younger than the grace window is left for the next run.
const sweepGrace = time.Hour

// sweepOrphanedBlobs deletes stored blobs that no project or status update
// references. Orphans appear when an upload is stored but the recording
// transaction fails afterwards; the database is authoritative, so unreferenced
// blobs older than the grace window are garbage.
func (s *Scheduler) sweepOrphanedBlobs() error {
	ctx := context.Background()

	referenced, err := store.New(s.db).ListAllImageFilenames(ctx)
	if err != nil {
		return err
	}
	refSet := make(map[string]bool, len(referenced))
	for _, f := range referenced {
		refSet[f] = true
	}

	stored, err := s.blobs.List()
	if err != nil {
		return err
	}

	removed := 0
	for _, key := range stored {
		if refSet[key] {
			continue
		}
		modTime, err := s.blobs.ModTime(key)
		if err != nil {
			s.logger.Warn("failed to stat orphaned blob", "key", key, "error", err)
			continue
		}
		if time.Since(modTime) < sweepGrace {
			continue
		}
		ok, err := s.blobs.Delete(key)
		if err != nil {
			s.logger.Warn("failed to delete orphaned blob", "key", key, "error", err)
			continue
		}
		if ok {
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info("swept orphaned blobs", "removed", removed)
	}
	return nil
}

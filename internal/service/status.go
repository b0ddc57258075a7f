// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/sitework-go/internal/blob"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
)

// Status implements the status update engine: validated, atomic appends that
// move the parent project's current status and accumulate its total cost.
type Status struct {
	db     *sql.DB
	blobs  blob.Store
	thumbs Thumbnailer
	events *EventService
}

// NewStatus creates a new Status service. thumbs may be nil to disable
// thumbnail generation.
func NewStatus(db *sql.DB, blobs blob.Store, thumbs Thumbnailer, events *EventService) *Status {
	return &Status{
		db:     db,
		blobs:  blobs,
		thumbs: thumbs,
		events: events,
	}
}

// AppendParams holds a status update as submitted. CompletionPercentage and
// PhaseCost arrive as raw form strings and are validated here.
type AppendParams struct {
	ProjectID            int64
	Status               string
	Phase                string
	Notes                string
	CompletionPercentage string
	NextSteps            string
	PhaseCost            string
	CostBreakdown        string
	Images               []Upload
}

// AppendResult reports the outcome of a status append. Modified is false
// when the project does not exist: nothing was appended and any stored blobs
// are left for the orphan sweep.
type AppendResult struct {
	Modified bool     `json:"modified"`
	Stored   []string `json:"stored"`
	Skipped  []string `json:"skipped"`
}

// Append validates, stores attached images and applies the status update
// atomically: the project's current status, its total cost increment and the
// appended update row commit together or not at all.
func (s *Status) Append(ctx context.Context, arg AppendParams) (*AppendResult, error) {
	if arg.Status == "" {
		return nil, fmt.Errorf("%w: status is required", model.ErrInvalidInput)
	}

	completion, err := parseCompletion(arg.CompletionPercentage)
	if err != nil {
		return nil, err
	}
	phaseCost, err := parsePhaseCost(arg.PhaseCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var images []store.StatusImageParams
	var stored, skipped []string
	for _, upload := range arg.Images {
		if !upload.Allowed() {
			skipped = append(skipped, upload.OriginalName)
			continue
		}

		key := blob.KeyFor(upload.OriginalName, now)
		if err := s.blobs.Put(ctx, key, bytes.NewReader(upload.Data)); err != nil {
			// Blobs already stored for this append become orphans; the
			// scheduled sweep reclaims them.
			return nil, fmt.Errorf("%w: storing %s: %v", model.ErrStorageFailure, upload.OriginalName, err)
		}
		if s.thumbs != nil {
			if err := s.thumbs.Thumbnail(key, upload.Data); err != nil {
				slog.Warn("thumbnail generation failed", "key", key, "error", err)
			}
		}

		images = append(images, store.StatusImageParams{
			Filename:     key,
			OriginalName: upload.OriginalName,
			UploadDate:   now,
		})
		stored = append(stored, key)
	}

	modified, err := store.AppendStatusUpdate(ctx, s.db, store.AppendStatusUpdateParams{
		ProjectID:            arg.ProjectID,
		Status:               sanitize(arg.Status),
		Phase:                sanitize(arg.Phase),
		Notes:                sanitize(arg.Notes),
		CompletionPercentage: completion,
		NextSteps:            sanitize(arg.NextSteps),
		PhaseCost:            phaseCost,
		CostBreakdown:        sanitize(arg.CostBreakdown),
		UpdateDate:           now,
		Images:               images,
	})
	if err != nil {
		return nil, fmt.Errorf("appending status update: %w", err)
	}

	if modified > 0 {
		s.events.LogProject(ctx, model.EventLevelInfo, "status update appended", 0, map[string]any{
			"project_id": arg.ProjectID,
			"status":     arg.Status,
			"phase_cost": phaseCost,
		})
	}

	return &AppendResult{
		Modified: modified > 0,
		Stored:   stored,
		Skipped:  skipped,
	}, nil
}

// parseCompletion validates the completion percentage: an integer in
// [0, 100]. Empty input means zero; anything else malformed is rejected.
func parseCompletion(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: completion percentage must be an integer", model.ErrInvalidInput)
	}
	if n < 0 || n > 100 {
		return 0, fmt.Errorf("%w: completion percentage must be between 0 and 100", model.ErrInvalidInput)
	}
	return n, nil
}

// parsePhaseCost parses the phase cost. Non-numeric input is tolerated and
// treated as zero; a parseable negative cost is rejected so the accumulated
// total can never decrease.
func parsePhaseCost(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	cost, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, nil
	}
	if cost < 0 {
		return 0, fmt.Errorf("%w: phase cost cannot be negative", model.ErrInvalidInput)
	}
	return cost, nil
}

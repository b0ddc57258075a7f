// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/sitework-go/internal/blob"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
)

// Projects implements the project lifecycle: creation with client
// provisioning, reads, updates, the delete cascade and the append-only
// progress gallery and construction log.
type Projects struct {
	db           *sql.DB
	queries      *store.Queries
	blobs        blob.Store
	thumbs       Thumbnailer
	provisioning *Provisioning
	events       *EventService
}

// NewProjects creates a new Projects service. thumbs may be nil to disable
// thumbnail generation.
func NewProjects(db *sql.DB, blobs blob.Store, thumbs Thumbnailer, provisioning *Provisioning, events *EventService) *Projects {
	return &Projects{
		db:           db,
		queries:      store.New(db),
		blobs:        blobs,
		thumbs:       thumbs,
		provisioning: provisioning,
		events:       events,
	}
}

// CreateProjectParams holds the fields for a new project. Exactly one of
// ClientID (an existing account) and NewClient (details for a fresh one)
// identifies the client.
type CreateProjectParams struct {
	Name        string
	Location    string
	Description string
	ClientID    int64
	NewClient   *NewClientFields
}

// CreateProjectResult is a freshly created project. TempPassword is set only
// when a new client account was provisioned; it is surfaced here exactly
// once.
type CreateProjectResult struct {
	Project      model.Project
	TempPassword string
}

// Create resolves or provisions the client, embeds a point-in-time client
// snapshot and inserts the project with status "Not Started" and zero cost.
func (s *Projects) Create(ctx context.Context, arg CreateProjectParams) (*CreateProjectResult, error) {
	if arg.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", model.ErrInvalidInput)
	}

	resolution, err := s.provisioning.ResolveClient(ctx, arg.ClientID, arg.NewClient)
	if err != nil {
		return nil, err
	}

	snap := resolution.Snapshot
	id, err := s.queries.CreateProject(ctx, store.CreateProjectParams{
		Name:          sanitize(arg.Name),
		Location:      sanitize(arg.Location),
		Description:   sanitize(arg.Description),
		Status:        model.StatusNotStarted,
		ClientID:      snap.ClientID,
		ClientName:    snap.ClientName,
		ClientEmail:   snap.ClientEmail,
		ClientPhone:   snap.ClientPhone,
		ClientAddress: snap.ClientAddress,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	project, err := s.queries.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reading back project: %w", err)
	}

	s.events.LogProject(ctx, model.EventLevelInfo, "project created", snap.ClientID, map[string]any{
		"project_id": id,
		"name":       project.Name,
	})

	return &CreateProjectResult{
		Project:      project,
		TempPassword: resolution.TempPassword,
	}, nil
}

// Get returns the project with the given id.
func (s *Projects) Get(ctx context.Context, id int64) (*model.Project, error) {
	project, err := s.queries.GetProject(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up project: %w", err)
	}
	return &project, nil
}

// List returns all projects.
func (s *Projects) List(ctx context.Context) ([]model.Project, error) {
	projects, err := s.queries.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// ListForClient returns a client's projects, newest first.
func (s *Projects) ListForClient(ctx context.Context, email string) ([]model.Project, error) {
	projects, err := s.queries.ListProjectsByClientEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("listing client projects: %w", err)
	}
	return projects, nil
}

// ProjectDetail is a project with its full history. StatusUpdates and Logs
// are presented newest first.
type ProjectDetail struct {
	Project        model.Project        `json:"project"`
	StatusUpdates  []model.StatusUpdate `json:"status_updates"`
	Logs           []model.LogEntry     `json:"construction_logs"`
	ProgressImages []model.ImageRef     `json:"progress_images"`
}

// Detail returns a project together with its status updates, construction
// logs and progress images.
func (s *Projects) Detail(ctx context.Context, id int64) (*ProjectDetail, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates, err := s.queries.ListStatusUpdates(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing status updates: %w", err)
	}
	logs, err := s.queries.ListConstructionLogs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing construction logs: %w", err)
	}
	images, err := s.queries.ListProgressImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing progress images: %w", err)
	}

	// Storage order is append order; detail views show newest first.
	reverseUpdates(updates)
	reverseLogs(logs)
	reverseImages(images)

	return &ProjectDetail{
		Project:        *project,
		StatusUpdates:  updates,
		Logs:           logs,
		ProgressImages: images,
	}, nil
}

func reverseUpdates(s []model.StatusUpdate) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseLogs(s []model.LogEntry) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseImages(s []model.ImageRef) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// UpdateProjectParams holds the editable project fields. The client snapshot
// and total cost are not editable.
type UpdateProjectParams struct {
	ID          int64
	Name        string
	Location    string
	Description string
	Status      string
}

// Update edits a project's descriptive fields and current status.
func (s *Projects) Update(ctx context.Context, arg UpdateProjectParams) error {
	if arg.Name == "" {
		return fmt.Errorf("%w: project name is required", model.ErrInvalidInput)
	}

	err := s.queries.UpdateProject(ctx, store.UpdateProjectParams{
		ID:          arg.ID,
		Name:        sanitize(arg.Name),
		Location:    sanitize(arg.Location),
		Description: sanitize(arg.Description),
		Status:      sanitize(arg.Status),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrProjectNotFound
	}
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}

	s.events.LogProject(ctx, model.EventLevelInfo, "project updated", 0, map[string]any{
		"project_id": arg.ID,
	})
	return nil
}

// Delete removes a project, its embedded history and its stored blobs.
// The database record is authoritative: it is removed first, then every
// referenced blob is released best effort. A blob that fails to delete is
// logged and skipped, never resurrecting the project. Returns the number of
// blobs released.
func (s *Projects) Delete(ctx context.Context, id int64) (int, error) {
	filenames, err := s.queries.ListProjectImageFilenames(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("listing project images: %w", err)
	}

	deleted, err := s.queries.DeleteProject(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("deleting project: %w", err)
	}
	if deleted == 0 {
		return 0, model.ErrProjectNotFound
	}

	released := 0
	for _, filename := range filenames {
		removed, err := s.blobs.Delete(filename)
		if err != nil {
			s.events.LogAttachment(ctx, model.EventLevelWarning, "failed to release blob", map[string]any{
				"project_id": id,
				"filename":   filename,
				"error":      err.Error(),
			})
			continue
		}
		if removed {
			released++
		}
	}

	s.events.LogProject(ctx, model.EventLevelInfo, "project deleted", 0, map[string]any{
		"project_id":     id,
		"blobs_released": released,
	})
	return released, nil
}

// AppendLog appends an entry to a project's construction log.
func (s *Projects) AppendLog(ctx context.Context, projectID int64, phase, entry string, completionStatus int64) (int64, error) {
	if entry == "" {
		return 0, fmt.Errorf("%w: log entry is required", model.ErrInvalidInput)
	}
	if completionStatus < 0 || completionStatus > 100 {
		return 0, fmt.Errorf("%w: completion status must be between 0 and 100", model.ErrInvalidInput)
	}
	if _, err := s.Get(ctx, projectID); err != nil {
		return 0, err
	}

	id, err := s.queries.InsertConstructionLog(ctx, store.InsertConstructionLogParams{
		ProjectID:        projectID,
		Phase:            sanitize(phase),
		Entry:            sanitize(entry),
		CompletionStatus: completionStatus,
		Date:             time.Now(),
	})
	if err != nil {
		return 0, fmt.Errorf("appending construction log: %w", err)
	}
	return id, nil
}

// UploadProgressImages stores a batch of images in the project's progress
// gallery. Files with disallowed extensions are skipped silently; a storage
// failure on an allowed file fails the whole operation. Returns the stored
// image records and the names that were skipped.
func (s *Projects) UploadProgressImages(ctx context.Context, projectID int64, description string, uploads []Upload) ([]model.ImageRef, []string, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, nil, err
	}

	var stored []model.ImageRef
	var skipped []string
	for _, upload := range uploads {
		if !upload.Allowed() {
			skipped = append(skipped, upload.OriginalName)
			continue
		}

		now := time.Now()
		key := blob.KeyFor(upload.OriginalName, now)
		if err := s.blobs.Put(ctx, key, bytes.NewReader(upload.Data)); err != nil {
			return nil, nil, fmt.Errorf("%w: storing %s: %v", model.ErrStorageFailure, upload.OriginalName, err)
		}
		if s.thumbs != nil {
			if err := s.thumbs.Thumbnail(key, upload.Data); err != nil {
				slog.Warn("thumbnail generation failed", "key", key, "error", err)
			}
		}

		imgID, err := s.queries.InsertProgressImage(ctx, store.InsertProgressImageParams{
			ProjectID:    projectID,
			Filename:     key,
			OriginalName: upload.OriginalName,
			Description:  sanitize(description),
			UploadDate:   now,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("recording progress image: %w", err)
		}
		stored = append(stored, model.ImageRef{
			ID:           imgID,
			Filename:     key,
			OriginalName: upload.OriginalName,
			Description:  description,
			UploadDate:   now,
		})
	}

	return stored, skipped, nil
}

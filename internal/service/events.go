// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic of the project lifecycle
// engine: authentication, client provisioning, project CRUD with attachment
// cascade, the status update engine and audit event logging.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
)

// EventService writes audit events to the event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// LogEvent creates a new audit event entry. Failures are logged and
// swallowed: audit logging never fails the operation being audited.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, accountID int64, ipAddress string, metadata map[string]any) {
	metadataJSON := "{}"
	if metadata != nil {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		AccountID: accountID,
		Metadata:  metadataJSON,
		IPAddress: ipAddress,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("failed to log audit event", "error", err, "category", category)
	}
}

// LogAuth logs an authentication-related event.
func (s *EventService) LogAuth(ctx context.Context, level, message string, accountID int64, ipAddress string, metadata map[string]any) {
	s.LogEvent(ctx, level, model.EventCategoryAuth, message, accountID, ipAddress, metadata)
}

// LogAccount logs an account-management event.
func (s *EventService) LogAccount(ctx context.Context, level, message string, accountID int64, metadata map[string]any) {
	s.LogEvent(ctx, level, model.EventCategoryAccount, message, accountID, "", metadata)
}

// LogProject logs a project-lifecycle event.
func (s *EventService) LogProject(ctx context.Context, level, message string, accountID int64, metadata map[string]any) {
	s.LogEvent(ctx, level, model.EventCategoryProject, message, accountID, "", metadata)
}

// LogAttachment logs an attachment-lifecycle event.
func (s *EventService) LogAttachment(ctx context.Context, level, message string, metadata map[string]any) {
	s.LogEvent(ctx, level, model.EventCategoryAttachment, message, 0, "", metadata)
}

// DeleteOldEvents removes audit events older than the given duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.queries.DeleteEventsBefore(ctx, time.Now().Add(-olderThan))
}

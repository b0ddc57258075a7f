// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// StatusNotStarted is the status assigned to newly created projects.
const StatusNotStarted = "Not Started"

// Project is a construction project together with its denormalized client
// snapshot. The client_* fields are a point-in-time copy taken when the
// project is created; they are intentionally not kept in sync with the
// Account afterwards.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	TotalCost   float64   `json:"total_cost"`
	CreatedAt   time.Time `json:"created_date"`

	ClientID      int64  `json:"client_id"`
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	ClientAddress string `json:"client_address"`
}

// ClientSnapshot is the denormalized client data embedded in a Project at
// creation time.
type ClientSnapshot struct {
	ClientID      int64  `json:"client_id"`
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	ClientAddress string `json:"client_address"`
}

// StatusUpdate is an immutable, append-only record of a project's phase
// progress. Appending one sets the parent project's current status and
// increments its total cost by PhaseCost.
type StatusUpdate struct {
	ID                   int64      `json:"id"`
	ProjectID            int64      `json:"project_id"`
	Status               string     `json:"status"`
	Phase                string     `json:"phase"`
	Notes                string     `json:"notes"`
	CompletionPercentage int64      `json:"completion_percentage"`
	NextSteps            string     `json:"next_steps"`
	PhaseCost            float64    `json:"phase_cost"`
	CostBreakdown        string     `json:"cost_breakdown"`
	UpdateDate           time.Time  `json:"update_date"`
	Images               []ImageRef `json:"images"`
}

// LogEntry is an append-only construction log record. It is an independent
// narrative trail and carries no cost information.
type LogEntry struct {
	ID               int64     `json:"id"`
	ProjectID        int64     `json:"project_id"`
	Phase            string    `json:"phase"`
	Entry            string    `json:"entry"`
	CompletionStatus int64     `json:"completion_status"`
	Date             time.Time `json:"date"`
}

// ImageRef is metadata for an uploaded image. Filename is the opaque blob
// store key; the blob's lifetime is tied to the owning project or status
// update.
type ImageRef struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Description  string    `json:"description,omitempty"`
	UploadDate   time.Time `json:"upload_date"`
}

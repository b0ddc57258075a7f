// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/sitework-go/internal/model"
)

const projectColumns = `id, name, location, description, status, total_cost,
	client_id, client_name, client_email, client_phone, client_address, created_at`

func scanProject(row interface{ Scan(...any) error }) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Name, &p.Location, &p.Description, &p.Status, &p.TotalCost,
		&p.ClientID, &p.ClientName, &p.ClientEmail, &p.ClientPhone, &p.ClientAddress, &p.CreatedAt)
	return p, err
}

// CreateProjectParams holds the fields for a new project, including the
// denormalized client snapshot taken at creation time.
type CreateProjectParams struct {
	Name          string
	Location      string
	Description   string
	Status        string
	ClientID      int64
	ClientName    string
	ClientEmail   string
	ClientPhone   string
	ClientAddress string
	CreatedAt     time.Time
}

// CreateProject inserts a new project and returns its generated id.
func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO projects (name, location, description, status, total_cost,
			client_id, client_name, client_email, client_phone, client_address, created_at)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Location, arg.Description, arg.Status,
		arg.ClientID, arg.ClientName, arg.ClientEmail, arg.ClientPhone, arg.ClientAddress,
		arg.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetProject returns the project with the given id.
func (q *Queries) GetProject(ctx context.Context, id int64) (model.Project, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// ListProjects returns all projects, oldest first.
func (q *Queries) ListProjects(ctx context.Context) ([]model.Project, error) {
	return q.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY id`)
}

// ListProjectsByClientEmail returns a client's projects, newest first
// (dashboard order).
func (q *Queries) ListProjectsByClientEmail(ctx context.Context, email string) ([]model.Project, error) {
	return q.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE client_email = ? ORDER BY created_at DESC, id DESC`,
		email)
}

func (q *Queries) queryProjects(ctx context.Context, query string, args ...any) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CountProjects returns the total number of projects.
func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n)
	return n, err
}

// UpdateProjectParams holds the mutable project fields. The client snapshot
// and the cost/status audit fields are not updatable through this path.
type UpdateProjectParams struct {
	ID          int64
	Name        string
	Location    string
	Description string
	Status      string
}

// UpdateProject updates a project's editable fields.
func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, location = ?, description = ?, status = ? WHERE id = ?`,
		arg.Name, arg.Location, arg.Description, arg.Status, arg.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteProject removes a project record. Embedded status updates, logs and
// image rows are removed by ON DELETE CASCADE. Returns the number of project
// rows deleted (0 when the project was already gone).
func (q *Queries) DeleteProject(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListProjectImageFilenames returns the blob keys of every image reachable
// from a project: direct progress images plus images embedded in status
// updates. Used by the delete cascade to release blobs.
func (q *Queries) ListProjectImageFilenames(ctx context.Context, projectID int64) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT filename FROM progress_images WHERE project_id = ?
		UNION ALL
		SELECT i.filename FROM status_update_images i
		JOIN status_updates u ON i.status_update_id = u.id
		WHERE u.project_id = ?`,
		projectID, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var filenames []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		filenames = append(filenames, f)
	}
	return filenames, rows.Err()
}

// ListAllImageFilenames returns every referenced blob key across all
// projects. Used by the orphaned-upload sweep.
func (q *Queries) ListAllImageFilenames(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT filename FROM progress_images
		UNION
		SELECT filename FROM status_update_images`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var filenames []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		filenames = append(filenames, f)
	}
	return filenames, rows.Err()
}

// InsertProgressImageParams holds the fields for a direct project image.
type InsertProgressImageParams struct {
	ProjectID    int64
	Filename     string
	OriginalName string
	Description  string
	UploadDate   time.Time
}

// InsertProgressImage appends an image to a project's progress gallery.
func (q *Queries) InsertProgressImage(ctx context.Context, arg InsertProgressImageParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO progress_images (project_id, filename, original_name, description, upload_date)
		VALUES (?, ?, ?, ?, ?)`,
		arg.ProjectID, arg.Filename, arg.OriginalName, arg.Description, arg.UploadDate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListProgressImages returns a project's progress images in append order.
func (q *Queries) ListProgressImages(ctx context.Context, projectID int64) ([]model.ImageRef, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, filename, original_name, description, upload_date
		FROM progress_images WHERE project_id = ? ORDER BY id`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var images []model.ImageRef
	for rows.Next() {
		var img model.ImageRef
		if err := rows.Scan(&img.ID, &img.Filename, &img.OriginalName, &img.Description, &img.UploadDate); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// InsertConstructionLogParams holds the fields for a construction log entry.
type InsertConstructionLogParams struct {
	ProjectID        int64
	Phase            string
	Entry            string
	CompletionStatus int64
	Date             time.Time
}

// InsertConstructionLog appends a log entry to a project.
func (q *Queries) InsertConstructionLog(ctx context.Context, arg InsertConstructionLogParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO construction_logs (project_id, phase, entry, completion_status, date)
		VALUES (?, ?, ?, ?, ?)`,
		arg.ProjectID, arg.Phase, arg.Entry, arg.CompletionStatus, arg.Date)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListConstructionLogs returns a project's log entries in append order.
func (q *Queries) ListConstructionLogs(ctx context.Context, projectID int64) ([]model.LogEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, project_id, phase, entry, completion_status, date
		FROM construction_logs WHERE project_id = ? ORDER BY id`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var logs []model.LogEntry
	for rows.Next() {
		var l model.LogEntry
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Phase, &l.Entry, &l.CompletionStatus, &l.Date); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

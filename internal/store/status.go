// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/sitework-go/internal/model"
)

// StatusImageParams is an image attached to a status update being appended.
type StatusImageParams struct {
	Filename     string
	OriginalName string
	UploadDate   time.Time
}

// AppendStatusUpdateParams holds everything appended in one atomic operation.
type AppendStatusUpdateParams struct {
	ProjectID            int64
	Status               string
	Phase                string
	Notes                string
	CompletionPercentage int64
	NextSteps            string
	PhaseCost            float64
	CostBreakdown        string
	UpdateDate           time.Time
	Images               []StatusImageParams
}

// AppendStatusUpdate applies the three-part status append as a single
// transaction: set the project's current status, increment its total cost
// and push the update row (with its images). Partial application would
// corrupt the cost invariant, so all three effects commit together or not
// at all. Returns the number of modified projects: 0 means the project does
// not exist and nothing was appended (a no-op, not an error).
func AppendStatusUpdate(ctx context.Context, db *sql.DB, arg AppendStatusUpdateParams) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE projects SET status = ?, total_cost = total_cost + ? WHERE id = ?`,
		arg.Status, arg.PhaseCost, arg.ProjectID)
	if err != nil {
		return 0, fmt.Errorf("updating project: %w", err)
	}
	modified, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if modified == 0 {
		// Project is gone; nothing to append.
		return 0, nil
	}

	updRes, err := tx.ExecContext(ctx, `
		INSERT INTO status_updates (project_id, status, phase, notes, completion_percentage,
			next_steps, phase_cost, cost_breakdown, update_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.ProjectID, arg.Status, arg.Phase, arg.Notes, arg.CompletionPercentage,
		arg.NextSteps, arg.PhaseCost, arg.CostBreakdown, arg.UpdateDate)
	if err != nil {
		return 0, fmt.Errorf("inserting status update: %w", err)
	}
	updateID, err := updRes.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, img := range arg.Images {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO status_update_images (status_update_id, filename, original_name, upload_date)
			VALUES (?, ?, ?, ?)`,
			updateID, img.Filename, img.OriginalName, img.UploadDate); err != nil {
			return 0, fmt.Errorf("inserting status update image: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing append: %w", err)
	}
	return modified, nil
}

// ListStatusUpdates returns a project's status updates in append order, with
// their attached images populated.
func (q *Queries) ListStatusUpdates(ctx context.Context, projectID int64) ([]model.StatusUpdate, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, project_id, status, phase, notes, completion_percentage,
			next_steps, phase_cost, cost_breakdown, update_date
		FROM status_updates WHERE project_id = ? ORDER BY id`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var updates []model.StatusUpdate
	byID := make(map[int64]int)
	for rows.Next() {
		var u model.StatusUpdate
		if err := rows.Scan(&u.ID, &u.ProjectID, &u.Status, &u.Phase, &u.Notes,
			&u.CompletionPercentage, &u.NextSteps, &u.PhaseCost, &u.CostBreakdown, &u.UpdateDate); err != nil {
			return nil, err
		}
		byID[u.ID] = len(updates)
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imgRows, err := q.db.QueryContext(ctx, `
		SELECT i.id, i.status_update_id, i.filename, i.original_name, i.upload_date
		FROM status_update_images i
		JOIN status_updates u ON i.status_update_id = u.id
		WHERE u.project_id = ? ORDER BY i.id`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = imgRows.Close() }()

	for imgRows.Next() {
		var img model.ImageRef
		var updateID int64
		if err := imgRows.Scan(&img.ID, &updateID, &img.Filename, &img.OriginalName, &img.UploadDate); err != nil {
			return nil, err
		}
		if idx, ok := byID[updateID]; ok {
			updates[idx].Images = append(updates[idx].Images, img)
		}
	}
	return updates, imgRows.Err()
}

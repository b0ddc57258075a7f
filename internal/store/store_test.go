// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/store"
	"github.com/olegiv/sitework-go/internal/testutil"
)

func TestCreateAndGetAccount(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	queries := store.New(db)
	ctx := context.Background()

	id := testutil.CreateAccount(t, db, "client@example.com", "Client", "pw123456", model.RoleClient)

	acc, err := queries.GetAccountByID(ctx, id)
	if err != nil {
		t.Fatalf("GetAccountByID: %v", err)
	}
	if acc.Email != "client@example.com" || acc.Role != model.RoleClient {
		t.Errorf("unexpected account %+v", acc)
	}
	if acc.Disabled {
		t.Error("new account must not be disabled")
	}

	byEmail, err := queries.GetAccountByEmail(ctx, "client@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if byEmail.ID != id {
		t.Errorf("GetAccountByEmail id = %d, want %d", byEmail.ID, id)
	}
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	testutil.CreateAccount(t, db, "dup@example.com", "One", "pw123456", model.RoleClient)

	now := time.Now()
	_, err := store.New(db).CreateAccount(context.Background(), store.CreateAccountParams{
		Email:        "dup@example.com",
		Name:         "Two",
		PasswordHash: "x",
		Role:         model.RoleClient,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err == nil {
		t.Error("expected unique constraint violation for duplicate email")
	}
}

func TestSetAccountDisabled(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	queries := store.New(db)
	ctx := context.Background()

	id := testutil.CreateAccount(t, db, "c@example.com", "C", "pw123456", model.RoleClient)

	if err := queries.SetAccountDisabled(ctx, id, true, time.Now()); err != nil {
		t.Fatalf("SetAccountDisabled: %v", err)
	}

	acc, err := queries.GetAccountByID(ctx, id)
	if err != nil {
		t.Fatalf("GetAccountByID: %v", err)
	}
	if !acc.Disabled {
		t.Error("expected account to be disabled")
	}

	// Missing account maps to sql.ErrNoRows
	err = queries.SetAccountDisabled(ctx, 9999, true, time.Now())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected sql.ErrNoRows for missing account, got %v", err)
	}
}

func TestAppendStatusUpdate_Atomicity(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	queries := store.New(db)
	ctx := context.Background()

	clientID := testutil.CreateAccount(t, db, "asha@x.com", "Asha", "pw123456", model.RoleClient)
	projectID := testutil.CreateProject(t, db, "Villa", clientID, "asha@x.com")

	for i, cost := range []float64{500, 250} {
		modified, err := store.AppendStatusUpdate(ctx, db, store.AppendStatusUpdateParams{
			ProjectID:            projectID,
			Status:               "In Progress",
			Phase:                "Foundation",
			CompletionPercentage: int64(10 * (i + 1)),
			PhaseCost:            cost,
			UpdateDate:           time.Now(),
		})
		if err != nil {
			t.Fatalf("AppendStatusUpdate #%d: %v", i+1, err)
		}
		if modified != 1 {
			t.Errorf("AppendStatusUpdate #%d modified = %d, want 1", i+1, modified)
		}
	}

	p, err := queries.GetProject(ctx, projectID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if p.TotalCost != 750 {
		t.Errorf("TotalCost = %v, want 750", p.TotalCost)
	}
	if p.Status != "In Progress" {
		t.Errorf("Status = %q, want %q", p.Status, "In Progress")
	}

	updates, err := queries.ListStatusUpdates(ctx, projectID)
	if err != nil {
		t.Fatalf("ListStatusUpdates: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("len(updates) = %d, want 2", len(updates))
	}
	// Storage order is append order: newest last
	if updates[0].PhaseCost != 500 || updates[1].PhaseCost != 250 {
		t.Errorf("unexpected append order: %v then %v", updates[0].PhaseCost, updates[1].PhaseCost)
	}
}

func TestAppendStatusUpdate_MissingProjectIsNoOp(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	modified, err := store.AppendStatusUpdate(ctx, db, store.AppendStatusUpdateParams{
		ProjectID:  4242,
		Status:     "In Progress",
		PhaseCost:  100,
		UpdateDate: time.Now(),
	})
	if err != nil {
		t.Fatalf("AppendStatusUpdate: %v", err)
	}
	if modified != 0 {
		t.Errorf("modified = %d, want 0 for missing project", modified)
	}

	// Nothing must have been appended anywhere
	var n int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM status_updates`).Scan(&n); err != nil {
		t.Fatalf("counting status updates: %v", err)
	}
	if n != 0 {
		t.Errorf("status_updates rows = %d, want 0", n)
	}
}

func TestAppendStatusUpdate_WithImages(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	queries := store.New(db)
	ctx := context.Background()

	clientID := testutil.CreateAccount(t, db, "c@x.com", "C", "pw123456", model.RoleClient)
	projectID := testutil.CreateProject(t, db, "House", clientID, "c@x.com")

	now := time.Now()
	_, err := store.AppendStatusUpdate(ctx, db, store.AppendStatusUpdateParams{
		ProjectID:  projectID,
		Status:     "Framing",
		UpdateDate: now,
		Images: []store.StatusImageParams{
			{Filename: "20250101_120000_a.png", OriginalName: "a.png", UploadDate: now},
			{Filename: "20250101_120000_b.jpg", OriginalName: "b.jpg", UploadDate: now},
		},
	})
	if err != nil {
		t.Fatalf("AppendStatusUpdate: %v", err)
	}

	updates, err := queries.ListStatusUpdates(ctx, projectID)
	if err != nil {
		t.Fatalf("ListStatusUpdates: %v", err)
	}
	if len(updates) != 1 || len(updates[0].Images) != 2 {
		t.Fatalf("expected 1 update with 2 images, got %+v", updates)
	}
	if updates[0].Images[0].Filename != "20250101_120000_a.png" {
		t.Errorf("unexpected first image %+v", updates[0].Images[0])
	}
}

func TestDeleteProject_CascadesAndReportsImages(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	queries := store.New(db)
	ctx := context.Background()

	clientID := testutil.CreateAccount(t, db, "c@x.com", "C", "pw123456", model.RoleClient)
	projectID := testutil.CreateProject(t, db, "House", clientID, "c@x.com")

	now := time.Now()
	if _, err := queries.InsertProgressImage(ctx, store.InsertProgressImageParams{
		ProjectID: projectID, Filename: "direct.png", UploadDate: now,
	}); err != nil {
		t.Fatalf("InsertProgressImage: %v", err)
	}
	if _, err := store.AppendStatusUpdate(ctx, db, store.AppendStatusUpdateParams{
		ProjectID: projectID, Status: "X", UpdateDate: now,
		Images: []store.StatusImageParams{{Filename: "embedded.jpg", UploadDate: now}},
	}); err != nil {
		t.Fatalf("AppendStatusUpdate: %v", err)
	}

	filenames, err := queries.ListProjectImageFilenames(ctx, projectID)
	if err != nil {
		t.Fatalf("ListProjectImageFilenames: %v", err)
	}
	if len(filenames) != 2 {
		t.Errorf("reachable images = %v, want 2 entries", filenames)
	}

	deleted, err := queries.DeleteProject(ctx, projectID)
	if err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	// Cascade must have removed the embedded collections
	for _, table := range []string{"status_updates", "status_update_images", "progress_images", "construction_logs"} {
		var n int64
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Fatalf("counting %s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s rows = %d after delete, want 0", table, n)
		}
	}

	// Second delete finds nothing
	deleted, err = queries.DeleteProject(ctx, projectID)
	if err != nil {
		t.Fatalf("DeleteProject (again): %v", err)
	}
	if deleted != 0 {
		t.Errorf("second delete = %d, want 0", deleted)
	}
}

func TestListProjectsByClientEmail_NewestFirst(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	queries := store.New(db)
	ctx := context.Background()

	clientID := testutil.CreateAccount(t, db, "c@x.com", "C", "pw123456", model.RoleClient)

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"First", "Second", "Third"} {
		if _, err := queries.CreateProject(ctx, store.CreateProjectParams{
			Name:        name,
			Status:      model.StatusNotStarted,
			ClientID:    clientID,
			ClientEmail: "c@x.com",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("CreateProject(%s): %v", name, err)
		}
	}

	projects, err := queries.ListProjectsByClientEmail(ctx, "c@x.com")
	if err != nil {
		t.Fatalf("ListProjectsByClientEmail: %v", err)
	}
	if len(projects) != 3 {
		t.Fatalf("len = %d, want 3", len(projects))
	}
	if projects[0].Name != "Third" || projects[2].Name != "First" {
		t.Errorf("expected newest first, got %s, %s, %s",
			projects[0].Name, projects[1].Name, projects[2].Name)
	}
}

func TestConstructionLogs(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	queries := store.New(db)
	ctx := context.Background()

	clientID := testutil.CreateAccount(t, db, "c@x.com", "C", "pw123456", model.RoleClient)
	projectID := testutil.CreateProject(t, db, "House", clientID, "c@x.com")

	for _, entry := range []string{"poured slab", "framed walls"} {
		if _, err := queries.InsertConstructionLog(ctx, store.InsertConstructionLogParams{
			ProjectID: projectID,
			Phase:     "Structure",
			Entry:     entry,
			Date:      time.Now(),
		}); err != nil {
			t.Fatalf("InsertConstructionLog: %v", err)
		}
	}

	logs, err := queries.ListConstructionLogs(ctx, projectID)
	if err != nil {
		t.Fatalf("ListConstructionLogs: %v", err)
	}
	if len(logs) != 2 || logs[0].Entry != "poured slab" {
		t.Errorf("unexpected logs %+v", logs)
	}
}

func TestEvents(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	queries := store.New(db)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	if _, err := queries.CreateEvent(ctx, store.CreateEventParams{
		Level: model.EventLevelInfo, Category: model.EventCategorySystem,
		Message: "old", Metadata: "{}", CreatedAt: old,
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if _, err := queries.CreateEvent(ctx, store.CreateEventParams{
		Level: model.EventLevelWarning, Category: model.EventCategoryAuth,
		Message: "recent", Metadata: "{}", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	deleted, err := queries.DeleteEventsBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	events, err := queries.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 || events[0].Message != "recent" {
		t.Errorf("unexpected events %+v", events)
	}
}

func TestSeedAdmin(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SeedAdmin(ctx, db, "admin@example.com", "bootstrap-pass"); err != nil {
		t.Fatalf("SeedAdmin: %v", err)
	}

	acc, err := store.New(db).GetAccountByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if acc.Role != model.RoleAdmin {
		t.Errorf("Role = %q, want admin", acc.Role)
	}

	// Idempotent
	if err := store.SeedAdmin(ctx, db, "admin@example.com", "bootstrap-pass"); err != nil {
		t.Fatalf("SeedAdmin (again): %v", err)
	}
	n, err := store.New(db).CountNonAdminAccounts(ctx)
	if err != nil {
		t.Fatalf("CountNonAdminAccounts: %v", err)
	}
	if n != 0 {
		t.Errorf("non-admin accounts = %d, want 0", n)
	}
}

func TestForeignKeysHoldOnEveryPooledConnection(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	clientID := testutil.CreateAccount(t, db, "c@x.com", "C", "pw123456", model.RoleClient)
	projectID := testutil.CreateProject(t, db, "House", clientID, "c@x.com")
	if _, err := store.AppendStatusUpdate(ctx, db, store.AppendStatusUpdateParams{
		ProjectID: projectID, Status: "X", UpdateDate: time.Now(),
	}); err != nil {
		t.Fatalf("AppendStatusUpdate: %v", err)
	}

	// Hold two connections at once so the pool cannot reuse the first.
	conn1, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn #1: %v", err)
	}
	defer func() { _ = conn1.Close() }()
	conn2, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("Conn #2: %v", err)
	}
	defer func() { _ = conn2.Close() }()

	for i, conn := range []*sql.Conn{conn1, conn2} {
		var fk int64
		if err := conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk); err != nil {
			t.Fatalf("reading foreign_keys on connection %d: %v", i+1, err)
		}
		if fk != 1 {
			t.Errorf("connection %d: foreign_keys = %d, want 1", i+1, fk)
		}
	}

	// A delete issued on the second connection must still cascade.
	if _, err := conn2.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, projectID); err != nil {
		t.Fatalf("delete on connection 2: %v", err)
	}
	var n int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM status_updates`).Scan(&n); err != nil {
		t.Fatalf("counting status_updates: %v", err)
	}
	if n != 0 {
		t.Errorf("status_updates rows = %d after delete, want 0", n)
	}
}

func TestAppendStatusUpdate_ConcurrentAppendsCommute(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	ctx := context.Background()

	clientID := testutil.CreateAccount(t, db, "c@x.com", "C", "pw123456", model.RoleClient)
	projectID := testutil.CreateProject(t, db, "House", clientID, "c@x.com")

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AppendStatusUpdate(ctx, db, store.AppendStatusUpdateParams{
				ProjectID:  projectID,
				Status:     "In Progress",
				PhaseCost:  10,
				UpdateDate: time.Now(),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent AppendStatusUpdate: %v", err)
		}
	}

	project, err := store.New(db).GetProject(ctx, projectID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if project.TotalCost != float64(workers)*10 {
		t.Errorf("total_cost = %v, want %v", project.TotalCost, float64(workers)*10)
	}
	var rows int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM status_updates WHERE project_id = ?`, projectID).Scan(&rows); err != nil {
		t.Fatalf("counting status_updates: %v", err)
	}
	if rows != workers {
		t.Errorf("status_updates rows = %d, want %d", rows, workers)
	}
}

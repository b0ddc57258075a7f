// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitework-go/internal/middleware"
	"github.com/olegiv/sitework-go/internal/model"
	"github.com/olegiv/sitework-go/internal/policy"
	"github.com/olegiv/sitework-go/internal/service"
)

// maxUploadSize bounds a single multipart upload request.
const maxUploadSize = 32 << 20 // 32 MB

func projectIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	return id, err == nil && id > 0
}

// ListProjects handles GET /projects (admin only).
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpProjectList, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	projects, err := h.projects.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"projects": projects})
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	ClientID    int64  `json:"client_id"`

	// New-client fields, used when ClientID is zero.
	ClientName    string `json:"client_name"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`
	ClientAddress string `json:"client_address"`
}

// CreateProject handles POST /projects (admin only). When the request names
// a client that does not exist yet, a client account is provisioned and the
// generated temporary password is included in this response only.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpProjectCreate, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	arg := service.CreateProjectParams{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		ClientID:    req.ClientID,
	}
	if req.ClientID == 0 {
		arg.NewClient = &service.NewClientFields{
			Name:    req.ClientName,
			Email:   req.ClientEmail,
			Phone:   req.ClientPhone,
			Address: req.ClientAddress,
		}
	}

	res, err := h.projects.Create(r.Context(), arg)
	if err != nil {
		writeError(w, err)
		return
	}
	h.counts.Invalidate(r.Context())

	data := map[string]any{"project": res.Project}
	if res.TempPassword != "" {
		data["temp_password"] = res.TempPassword
	}
	writeJSON(w, http.StatusCreated, data)
}

// GetProject handles GET /projects/{projectID}. Admins can read any
// project; clients only their own.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectIDParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	detail, err := h.projects.Detail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	ident := middleware.GetIdentity(r)
	if !policy.Authorize(ident, policy.OpProjectRead, &policy.Resource{OwnerEmail: detail.Project.ClientEmail}) {
		// A client probing someone else's project learns nothing about its
		// existence.
		writeJSONError(w, http.StatusNotFound, model.ErrProjectNotFound.Error())
		return
	}

	writeJSONSuccess(w, map[string]any{
		"project":           detail.Project,
		"status_updates":    detail.StatusUpdates,
		"construction_logs": detail.Logs,
		"progress_images":   detail.ProgressImages,
	})
}

type updateProjectRequest struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateProject handles PUT /projects/{projectID} (admin only).
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpProjectUpdate, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	id, ok := projectIDParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req updateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.projects.Update(r.Context(), service.UpdateProjectParams{
		ID:          id,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONSuccess(w, nil)
}

// DeleteProject handles DELETE /projects/{projectID} (admin only).
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpProjectDelete, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	id, ok := projectIDParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	released, err := h.projects.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.counts.Invalidate(r.Context())

	writeJSONSuccess(w, map[string]any{"blobs_released": released})
}

// AppendStatus handles POST /projects/{projectID}/status (admin only).
// Accepts multipart form data with optional image attachments.
func (h *Handler) AppendStatus(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpStatusAppend, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	id, ok := projectIDParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	uploads, err := readUploads(r, "images")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "reading uploads failed")
		return
	}

	res, err := h.status.Append(r.Context(), service.AppendParams{
		ProjectID:            id,
		Status:               r.FormValue("status"),
		Phase:                r.FormValue("phase"),
		Notes:                r.FormValue("notes"),
		CompletionPercentage: r.FormValue("completion_percentage"),
		NextSteps:            r.FormValue("next_steps"),
		PhaseCost:            r.FormValue("phase_cost"),
		CostBreakdown:        r.FormValue("cost_breakdown"),
		Images:               uploads,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if !res.Modified {
		writeJSONError(w, http.StatusNotFound, model.ErrProjectNotFound.Error())
		return
	}

	writeJSONSuccess(w, map[string]any{
		"stored":  res.Stored,
		"skipped": res.Skipped,
	})
}

type appendLogRequest struct {
	Phase            string `json:"phase"`
	Entry            string `json:"entry"`
	CompletionStatus int64  `json:"completion_status"`
}

// AppendLog handles POST /projects/{projectID}/logs (admin only).
func (h *Handler) AppendLog(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpLogAppend, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	id, ok := projectIDParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req appendLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	logID, err := h.projects.AppendLog(r.Context(), id, req.Phase, req.Entry, req.CompletionStatus)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "log_id": logID})
}

// UploadImages handles POST /projects/{projectID}/images (admin only).
func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request) {
	if !policy.Authorize(middleware.GetIdentity(r), policy.OpImageUpload, nil) {
		writeJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	id, ok := projectIDParam(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	uploads, err := readUploads(r, "images")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "reading uploads failed")
		return
	}

	stored, skipped, err := h.projects.UploadProgressImages(r.Context(), id, r.FormValue("description"), uploads)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSONSuccess(w, map[string]any{
		"stored":  stored,
		"skipped": skipped,
	})
}

// readUploads reads all files under the given multipart field into memory.
func readUploads(r *http.Request, field string) ([]service.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var uploads []service.Upload
	for _, fh := range r.MultipartForm.File[field] {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, service.Upload{
			OriginalName: fh.Filename,
			Data:         data,
		})
	}
	return uploads, nil
}

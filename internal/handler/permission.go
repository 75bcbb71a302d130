package handler

import (
	"log/slog"
	"net/http"

	"coscribe/internal/domain/models"
	"coscribe/internal/domain/services"
	"coscribe/internal/httputil"
)

// PermissionHandler handles permission HTTP requests
type PermissionHandler struct {
	permService services.PermissionService
	logger      *slog.Logger
}

// NewPermissionHandler creates a new permission handler
func NewPermissionHandler(permService services.PermissionService, logger *slog.Logger) *PermissionHandler {
	return &PermissionHandler{
		permService: permService,
		logger:      logger,
	}
}

// GrantPermission creates a grant (document creator only)
// POST /api/permissions
func (h *PermissionHandler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.GrantPermissionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	perm, err := h.permService.GrantPermission(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, perm)
}

// ListPermissions lists grants on a document (document creator only)
// GET /api/documents/{id}/permissions
func (h *PermissionHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	perms, err := h.permService.ListPermissions(r.Context(), userID, documentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, perms)
}

// UpdatePermission changes a grant's access type (document creator only)
// PUT /api/permissions/{id}
func (h *PermissionHandler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "permission ID is required")
		return
	}

	var req struct {
		AccessType models.AccessType `json:"access_type"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	perm, err := h.permService.UpdatePermission(r.Context(), userID, id, req.AccessType)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, perm)
}

// RevokePermission deletes a grant (document creator only)
// DELETE /api/permissions/{id}
func (h *PermissionHandler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "permission ID is required")
		return
	}

	if err := h.permService.RevokePermission(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

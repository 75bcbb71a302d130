package handler

import (
	"log/slog"
	"net/http"

	"coscribe/internal/domain/services"
	"coscribe/internal/httputil"
)

// RequestHandler handles share-invitation HTTP requests
type RequestHandler struct {
	requestService services.RequestService
	logger         *slog.Logger
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService services.RequestService, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		logger:         logger,
	}
}

// SendRequest invites a user to a document (document creator only)
// POST /api/requests
func (h *RequestHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.SendRequestRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	invitation, err := h.requestService.SendRequest(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, invitation)
}

// ListRequests lists invitations addressed to the caller
// GET /api/requests
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	requests, err := h.requestService.ListRequests(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, requests)
}

// AcceptRequest converts an invitation into a permission
// POST /api/requests/{id}/accept
func (h *RequestHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "request ID is required")
		return
	}

	perm, err := h.requestService.AcceptRequest(r.Context(), userID, id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, perm)
}

// DeclineRequest deletes an invitation
// DELETE /api/requests/{id}
func (h *RequestHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "request ID is required")
		return
	}

	if err := h.requestService.DeclineRequest(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

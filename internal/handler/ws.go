package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"coscribe/internal/config"
	"coscribe/internal/domain/services"
	"coscribe/internal/httputil"
	"coscribe/internal/realtime"
)

// WSHandler upgrades live collaboration connections and hands them to the hub.
type WSHandler struct {
	hub      *realtime.Hub
	gate     services.AccessGate
	cfg      *config.RealtimeConfig
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a new websocket handler. Origin checking is left to
// the CORS layer on the handshake's HTTP request.
func NewWSHandler(hub *realtime.Hub, gate services.AccessGate, cfg *config.RealtimeConfig, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:  hub,
		gate: gate,
		cfg:  cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Subscribe joins the caller to a document's broadcast group. Read access is
// checked before the upgrade so an unauthorized caller gets a proper 403
// instead of an immediately-closed socket.
// GET /ws/documents/{id}
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	userName := httputil.GetUserName(r)

	documentID := r.PathValue("id")
	if documentID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "document ID is required")
		return
	}

	canRead, err := h.gate.CanRead(r.Context(), userID, documentID)
	if err != nil {
		handleError(w, err)
		return
	}
	if !canRead {
		httputil.RespondError(w, http.StatusForbidden, "no access to this document")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	client := realtime.NewClient(conn, h.hub, h.gate, h.cfg, documentID, userID, userName, h.logger)
	// Run blocks for the life of the connection; the handler goroutine is the
	// read pump. Disconnect at any point lands in the unsubscribe path.
	client.Run(r.Context())
}

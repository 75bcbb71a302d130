package realtime

import (
	"log/slog"
	"sync"

	"coscribe/internal/domain/models"
)

// Subscriber is a live connection handle registered with the hub. Send must
// not block: implementations queue to a bounded buffer and report false when
// the subscriber has fallen too far behind to keep.
type Subscriber interface {
	ID() string
	UserID() string
	UserName() string
	Send(v any) bool
}

// room is the per-document broadcast group. Its mutex serializes subscribe,
// unsubscribe, and the count-and-zero check: a decrement racing the zero
// check would otherwise leak the cache or wipe it under a live viewer.
type room struct {
	mu          sync.Mutex
	subscribers map[string]Subscriber // keyed by connection id
	count       int
	cache       *models.Delta // in-flight content; nil until the first update
}

// Hub maps document ids to their broadcast groups and owns the transient
// content cache. It holds no cursor state; cursors are pure fan-out.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]*room
	logger *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]*room),
		logger: logger,
	}
}

// getOrCreate returns the room for a document, creating it on first use.
func (h *Hub) getOrCreate(documentID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	rm, ok := h.rooms[documentID]
	if !ok {
		rm = &room{subscribers: make(map[string]Subscriber)}
		h.rooms[documentID] = rm
	}
	return rm
}

// get returns the room or nil.
func (h *Hub) get(documentID string) *room {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms[documentID]
}

// Subscribe registers a connection with the document's broadcast group and
// returns the resulting presence count. Authorization has already happened at
// the boundary.
func (h *Hub) Subscribe(documentID string, sub Subscriber) int {
	rm := h.getOrCreate(documentID)

	rm.mu.Lock()
	rm.subscribers[sub.ID()] = sub
	rm.count++
	count := rm.count
	rm.mu.Unlock()

	h.logger.Info("subscriber joined",
		"document_id", documentID,
		"user_id", sub.UserID(),
		"presence", count,
	)
	return count
}

// Unsubscribe removes a connection, tells the remaining subscribers to drop
// that user's cursor, and clears the transient cache when the last viewer
// leaves. A negative count from concurrent disconnects clamps to zero.
func (h *Hub) Unsubscribe(documentID string, sub Subscriber) {
	rm := h.get(documentID)
	if rm == nil {
		return
	}

	rm.mu.Lock()
	if _, ok := rm.subscribers[sub.ID()]; !ok {
		rm.mu.Unlock()
		return
	}
	delete(rm.subscribers, sub.ID())
	rm.count--
	if rm.count <= 0 {
		rm.count = 0
		rm.cache = nil
	}
	count := rm.count
	remaining := rm.snapshotSubscribersLocked(sub.ID())
	rm.mu.Unlock()

	msg := DisconnectedMessage{
		Type:     TypeUserDisconnected,
		UserID:   sub.UserID(),
		UserName: sub.UserName(),
	}
	h.deliver(documentID, remaining, msg)

	h.logger.Info("subscriber left",
		"document_id", documentID,
		"user_id", sub.UserID(),
		"presence", count,
	)
}

// ApplyUpdate overwrites the transient cache with the new full content and
// fans it out to every subscriber except the sender. Last write wins; there
// is no merge.
func (h *Hub) ApplyUpdate(documentID string, changes models.Delta, from Subscriber) {
	rm := h.get(documentID)
	if rm == nil {
		return
	}

	rm.mu.Lock()
	content := changes
	rm.cache = &content
	targets := rm.snapshotSubscribersLocked(from.ID())
	rm.mu.Unlock()

	h.deliver(documentID, targets, UpdateMessage{Type: TypeUpdate, Changes: changes})
}

// RelayCursor fans a cursor event out to everyone but the sender. No state is
// kept and no ordering is guaranteed across senders.
func (h *Hub) RelayCursor(documentID string, msg CursorMessage, from Subscriber) {
	rm := h.get(documentID)
	if rm == nil {
		return
	}

	rm.mu.Lock()
	targets := rm.snapshotSubscribersLocked(from.ID())
	rm.mu.Unlock()

	msg.Type = TypeCursorUpdate
	h.deliver(documentID, targets, msg)
}

// Snapshot returns the in-flight content for a document, if any. Readers
// joining mid-session use it instead of the durable store.
func (h *Hub) Snapshot(documentID string) (models.Delta, bool) {
	rm := h.get(documentID)
	if rm == nil {
		return models.Delta{}, false
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if rm.cache == nil {
		return models.Delta{}, false
	}
	return *rm.cache, true
}

// Invalidate drops the transient cache after a durable save or restore so
// live viewers re-hydrate from the store.
func (h *Hub) Invalidate(documentID string) {
	rm := h.get(documentID)
	if rm == nil {
		return
	}

	rm.mu.Lock()
	rm.cache = nil
	rm.mu.Unlock()
}

// Presence returns the current subscriber count for a document.
func (h *Hub) Presence(documentID string) int {
	rm := h.get(documentID)
	if rm == nil {
		return 0
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.count
}

// snapshotSubscribersLocked copies the subscriber set minus one connection.
// Callers hold rm.mu; delivery happens after unlock.
func (rm *room) snapshotSubscribersLocked(excludeID string) []Subscriber {
	targets := make([]Subscriber, 0, len(rm.subscribers))
	for id, sub := range rm.subscribers {
		if id == excludeID {
			continue
		}
		targets = append(targets, sub)
	}
	return targets
}

// deliver pushes a message to each target, logging subscribers whose send
// buffer is full. A slow subscriber loses frames rather than stalling the
// room.
func (h *Hub) deliver(documentID string, targets []Subscriber, msg any) {
	for _, sub := range targets {
		if !sub.Send(msg) {
			h.logger.Warn("subscriber send buffer full, dropping frame",
				"document_id", documentID,
				"user_id", sub.UserID(),
				"connection_id", sub.ID(),
			)
		}
	}
}

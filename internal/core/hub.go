package core

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub is the room membership registry: a process-local map from room IDs to
// the connections currently subscribed to them, plus a directory from user
// IDs to that user's live connections. It holds live subscription state
// only; the store stays the source of truth and the registry is rebuilt
// from scratch on restart.
//
// All methods are safe for concurrent use from any connection goroutine.
type Hub struct {
	mu sync.RWMutex

	rooms map[int64]*room
	// clientRooms mirrors room membership per client so a disconnect can
	// clean up without scanning every room.
	clientRooms map[*Client]map[int64]struct{}
	// byUser is the connection directory: every live connection a user
	// holds, across devices.
	byUser map[int64]map[*Client]struct{}

	log *zerolog.Logger
}

// NewHub creates an empty registry.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		rooms:       make(map[int64]*room),
		clientRooms: make(map[*Client]map[int64]struct{}),
		byUser:      make(map[int64]map[*Client]struct{}),
		log:         logger,
	}
}

// RegisterClient adds a connection to the directory.
func (h *Hub) RegisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clientRooms[c] = make(map[int64]struct{})
	if _, ok := h.byUser[c.UserID]; !ok {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}

	h.log.Debug().Str("client_id", c.ID).Int64("user_id", c.UserID).Msg("client registered")
}

// UnregisterClient removes a connection from the directory and from every
// room it was subscribed to, notifying each room's remaining subscribers.
// It runs unconditionally on disconnect and is idempotent.
func (h *Hub) UnregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for roomID := range h.clientRooms[c] {
		h.leaveLocked(roomID, c)
	}
	delete(h.clientRooms, c)

	if conns, ok := h.byUser[c.UserID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.byUser, c.UserID)
		}
	}

	h.log.Debug().Str("client_id", c.ID).Int64("user_id", c.UserID).Msg("client unregistered")
}

// Subscribe attaches a connection to a room's broadcast stream and emits a
// userJoined notification to the room's other subscribers. Authorization is
// the caller's responsibility; the registry only tracks live state.
func (h *Hub) Subscribe(roomID int64, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[roomID]
	if !ok {
		r = newRoom(roomID)
		h.rooms[roomID] = r
	}
	if !r.add(c) {
		return
	}
	if tracked, ok := h.clientRooms[c]; ok {
		tracked[roomID] = struct{}{}
	}

	r.broadcast(&Event{Kind: EventUserJoined, RoomID: roomID, UserID: c.UserID}, c)
}

// Unsubscribe detaches a connection from a room and emits userLeft to the
// remaining subscribers. Calling it for a room the client never joined is
// a no-op.
func (h *Hub) Unsubscribe(roomID int64, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(roomID, c)
	if tracked, ok := h.clientRooms[c]; ok {
		delete(tracked, roomID)
	}
}

func (h *Hub) leaveLocked(roomID int64, c *Client) {
	r, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if !r.remove(c) {
		return
	}

	r.broadcast(&Event{Kind: EventUserLeft, RoomID: roomID, UserID: c.UserID}, nil)
	if r.empty() {
		delete(h.rooms, roomID)
	}
}

// Publish delivers an event to every connection currently subscribed to the
// room. Delivery is best-effort per connection.
func (h *Hub) Publish(roomID int64, ev *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if r, ok := h.rooms[roomID]; ok {
		r.broadcast(ev, nil)
	}
}

// PublishToUser delivers an event to all of a user's live connections.
func (h *Hub) PublishToUser(userID int64, ev *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.byUser[userID] {
		c.trySend(ev)
	}
}

// PublishAll delivers an event to every live connection.
func (h *Hub) PublishAll(ev *Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clientRooms {
		c.trySend(ev)
	}
}

// DropRoom removes a room's registry entry, implicitly unsubscribing every
// connection without emitting userLeft for each. Used after room deletion,
// where a single roomDeleted event replaces per-user notifications.
func (h *Hub) DropRoom(roomID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for c := range r.clients {
		if tracked, ok := h.clientRooms[c]; ok {
			delete(tracked, roomID)
		}
	}
	delete(h.rooms, roomID)
}

// SubscriberCount reports how many connections are attached to a room.
func (h *Hub) SubscriberCount(roomID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if r, ok := h.rooms[roomID]; ok {
		return len(r.clients)
	}
	return 0
}

// IsSubscribed reports whether the connection is attached to the room.
func (h *Hub) IsSubscribed(roomID int64, c *Client) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if r, ok := h.rooms[roomID]; ok {
		_, subscribed := r.clients[c]
		return subscribed
	}
	return false
}

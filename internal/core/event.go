package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRooms delivers a snapshot of the rooms a user participates in.
	EventRooms EventKind = iota
	// EventRoomData delivers a single room snapshot after a join.
	EventRoomData
	// EventMessages delivers a room's message history.
	EventMessages
	// EventMessage notifies subscribers about a new chat message.
	EventMessage
	// EventMessageDeleted notifies subscribers that a message was removed.
	EventMessageDeleted
	// EventRoomDeleted notifies clients that a room no longer exists.
	EventRoomDeleted
	// EventRoomUpdated delivers a room snapshot after a participant change.
	EventRoomUpdated
	// EventRoomParticipants delivers a room's current participant list.
	EventRoomParticipants
	// EventUserJoined notifies a room that a connection subscribed.
	EventUserJoined
	// EventUserLeft notifies a room that a connection unsubscribed.
	EventUserLeft
	// EventError notifies the originating client about a domain error.
	EventError
	// EventSuccess acknowledges a completed command to the caller.
	EventSuccess
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind         EventKind
	RoomID       int64
	MessageID    int64
	UserID       int64
	Info         string // human-readable text for EventSuccess
	Room         *RoomSnapshot
	Rooms        []RoomSnapshot
	Message      *MessageSnapshot
	Messages     []MessageSnapshot
	Participants []UserRef
	Error        *CoreError
}

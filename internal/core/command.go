package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom creates a new room owned by the caller.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom subscribes the client to a room's broadcast stream.
	CommandJoinRoom
	// CommandLeaveRoom unsubscribes the client from a room.
	CommandLeaveRoom
	// CommandGetRooms returns the rooms the caller participates in.
	CommandGetRooms
	// CommandGetMessages returns a room's message history.
	CommandGetMessages
	// CommandSendMessage persists a message and broadcasts it to the room.
	CommandSendMessage
	// CommandDeleteMessage removes a message sent by the caller.
	CommandDeleteMessage
	// CommandDeleteRoom deletes a room and all of its messages.
	CommandDeleteRoom
	// CommandAddParticipant adds a user to a room by username.
	CommandAddParticipant
	// CommandGetParticipants returns a room's participant list.
	CommandGetParticipants
)

// Command represents an action requested by a client. Which fields are
// meaningful depends on Kind.
type Command struct {
	Kind      CommandKind
	RoomID    int64
	MessageID int64
	Name      string // room name for CommandCreateRoom
	Username  string // target user for CommandAddParticipant
	Text      string // message body for CommandSendMessage
}

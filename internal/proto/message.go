package proto

import "encoding/json"

// Inbound is the envelope for commands coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound command types.
const (
	InboundCreateRoom          = "createRoom"
	InboundJoinRoom            = "joinRoom"
	InboundLeaveRoom           = "leaveRoom"
	InboundGetRooms            = "getRooms"
	InboundGetMessages         = "getMessages"
	InboundSendMessage         = "sendMessage"
	InboundDeleteMessage       = "deleteMessage"
	InboundDeleteRoom          = "deleteRoom"
	InboundAddUserToRoom       = "addUserToRoom"
	InboundGetRoomParticipants = "getRoomParticipants"
)

// Outbound event types.
const (
	OutboundRooms            = "rooms"
	OutboundRoomData         = "roomData"
	OutboundMessages         = "messages"
	OutboundMessage          = "message"
	OutboundMessageDeleted   = "messageDeleted"
	OutboundRoomDeleted      = "roomDeleted"
	OutboundRoomUpdated      = "roomUpdated"
	OutboundRoomParticipants = "roomParticipants"
	OutboundUserJoined       = "userJoined"
	OutboundUserLeft         = "userLeft"
	OutboundError            = "error"
	OutboundSuccess          = "success"
)

// CreateRoomData names the room to create.
type CreateRoomData struct {
	Name string `json:"name"`
}

// RoomRefData targets a command at a single room.
type RoomRefData struct {
	RoomID int64 `json:"roomId"`
}

// SendMessageData is a chat message from the client.
type SendMessageData struct {
	RoomID int64  `json:"roomId"`
	Text   string `json:"text"`
}

// DeleteMessageData identifies the message to delete.
type DeleteMessageData struct {
	MessageID int64 `json:"messageId"`
	RoomID    int64 `json:"roomId"`
}

// AddUserData adds a user to a room by username.
type AddUserData struct {
	RoomID   int64  `json:"roomId"`
	Username string `json:"username"`
}

// Outbound is the envelope for events sent to the client. Type is one of
// the Outbound* constants; Data depends on the type.
type Outbound struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// UserPayload carries user display fields inside snapshots.
type UserPayload struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// RoomPayload is a room snapshot with resolved creator and participants.
type RoomPayload struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Creator      UserPayload   `json:"createdBy"`
	Participants []UserPayload `json:"participants"`
	CreatedAt    int64         `json:"createdAt"`
}

// MessagePayload is a message snapshot with a resolved sender.
type MessagePayload struct {
	ID        int64       `json:"id"`
	RoomID    int64       `json:"roomId"`
	Sender    UserPayload `json:"sender"`
	Content   string      `json:"content"`
	Timestamp int64       `json:"timestamp"`
}

// MessagesPayload is a room's chronological history.
type MessagesPayload struct {
	RoomID   int64            `json:"roomId"`
	Messages []MessagePayload `json:"messages"`
}

// ParticipantsPayload is a room's current participant list.
type ParticipantsPayload struct {
	RoomID       int64         `json:"roomId"`
	Participants []UserPayload `json:"participants"`
}

// MessageDeletedPayload notifies that a message was removed.
type MessageDeletedPayload struct {
	MessageID int64 `json:"messageId"`
	RoomID    int64 `json:"roomId"`
}

// RoomDeletedPayload notifies that a room was removed.
type RoomDeletedPayload struct {
	RoomID int64 `json:"roomId"`
}

// PresencePayload notifies about a user joining or leaving a room stream.
type PresencePayload struct {
	RoomID int64 `json:"roomId"`
	UserID int64 `json:"userId"`
}

// ErrorPayload describes a command failure surfaced to the caller.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessPayload acknowledges a completed command.
type SuccessPayload struct {
	Message string `json:"message"`
}

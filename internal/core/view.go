package core

import "time"

// UserRef identifies a user inside snapshots pushed to clients.
// It carries display fields only, never credentials.
type UserRef struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// RoomSnapshot is the room state pushed to clients, with creator and
// participants resolved to display fields.
type RoomSnapshot struct {
	ID           int64
	Name         string
	Creator      UserRef
	Participants []UserRef
	CreatedAt    time.Time
}

// MessageSnapshot is a persisted message with its sender resolved.
type MessageSnapshot struct {
	ID        int64
	RoomID    int64
	Sender    UserRef
	Content   string
	CreatedAt time.Time
}

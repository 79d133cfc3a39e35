package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// Room represents a chat room. Participants live in a separate
// association table; the creator is always inserted as the first
// participant when the room is created.
type Room struct {
	ID        int64
	Name      string
	CreatorID int64
	CreatedAt time.Time
}

// Message represents a persisted chat message.
type Message struct {
	ID        int64
	RoomID    int64
	SenderID  int64
	Content   string
	CreatedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser creates a new user with a pre-hashed password.
	CreateUser(ctx context.Context, username, email, passwordHash, firstName, lastName string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// UpdateProfile updates a user's display fields.
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error
}

// RoomStore handles room persistence and the participant set.
type RoomStore interface {
	// CreateRoom creates a room and adds the creator as its first
	// participant in one transaction.
	CreateRoom(ctx context.Context, name string, creatorID int64) (*Room, error)

	// GetRoomByID retrieves a room by ID.
	GetRoomByID(ctx context.Context, id int64) (*Room, error)

	// ListRoomsForUser lists rooms where the user is a participant.
	ListRoomsForUser(ctx context.Context, userID int64) ([]*Room, error)

	// AddParticipant adds a user to the room's participant set.
	// Returns false if the user was already a participant.
	AddParticipant(ctx context.Context, roomID, userID int64) (bool, error)

	// RemoveParticipant removes a user from the room's participant set.
	RemoveParticipant(ctx context.Context, roomID, userID int64) error

	// IsParticipant checks whether the user belongs to the room.
	IsParticipant(ctx context.Context, roomID, userID int64) (bool, error)

	// ListParticipants lists the room's participants.
	ListParticipants(ctx context.Context, roomID int64) ([]*User, error)

	// DeleteRoom deletes the room, its participant set and all of its
	// messages in one transaction.
	DeleteRoom(ctx context.Context, id int64) error
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage persists a message and fills in its ID and CreatedAt.
	SaveMessage(ctx context.Context, msg *Message) error

	// GetMessageByID retrieves a message by ID.
	GetMessageByID(ctx context.Context, id int64) (*Message, error)

	// ListMessages retrieves a room's messages in chronological order.
	ListMessages(ctx context.Context, roomID int64) ([]*Message, error)

	// DeleteMessage removes a single message.
	DeleteMessage(ctx context.Context, id int64) error

	// CountMessages returns the number of messages in a room.
	CountMessages(ctx context.Context, roomID int64) (int64, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	RoomStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}

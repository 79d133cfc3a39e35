package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/store"
)

// minRoomNameLen matches the room name constraint enforced at creation.
const minRoomNameLen = 3

// Service executes client commands: room lifecycle, message
// persist-then-broadcast, and the snapshot pushes that follow each
// mutation. Commands for one connection are handled serially by that
// connection's read loop; Service itself is safe for concurrent use
// across connections.
type Service struct {
	store store.Store
	hub   *Hub
	log   *zerolog.Logger

	// roomLocks serializes persist-then-publish per room so every
	// subscriber observes messages in persistence order.
	mu        sync.Mutex
	roomLocks map[int64]*sync.Mutex
}

// NewService creates a command service on top of the store and registry.
func NewService(st store.Store, hub *Hub, logger *zerolog.Logger) *Service {
	return &Service{
		store:     st,
		hub:       hub,
		log:       logger,
		roomLocks: make(map[int64]*sync.Mutex),
	}
}

// OnConnect pushes the initial room list to a freshly authenticated
// connection.
func (s *Service) OnConnect(ctx context.Context, c *Client) {
	if cerr := s.sendRooms(ctx, c); cerr != nil {
		c.trySend(&Event{Kind: EventError, Error: cerr})
	}
}

// Handle dispatches a single command. Every domain error is surfaced to
// the originating connection only, as an error event; nothing here can
// take down the connection or the process.
func (s *Service) Handle(ctx context.Context, c *Client, cmd *Command) {
	var cerr *CoreError

	switch cmd.Kind {
	case CommandCreateRoom:
		cerr = s.createRoom(ctx, c, cmd.Name)
	case CommandJoinRoom:
		cerr = s.joinRoom(ctx, c, cmd.RoomID)
	case CommandLeaveRoom:
		s.leaveRoom(c, cmd.RoomID)
	case CommandGetRooms:
		cerr = s.sendRooms(ctx, c)
	case CommandGetMessages:
		cerr = s.getMessages(ctx, c, cmd.RoomID)
	case CommandSendMessage:
		cerr = s.sendMessage(ctx, c, cmd.RoomID, cmd.Text)
	case CommandDeleteMessage:
		cerr = s.deleteMessage(ctx, c, cmd.MessageID)
	case CommandDeleteRoom:
		cerr = s.deleteRoom(ctx, c, cmd.RoomID)
	case CommandAddParticipant:
		cerr = s.addParticipant(ctx, c, cmd.RoomID, cmd.Username)
	case CommandGetParticipants:
		cerr = s.getParticipants(ctx, c, cmd.RoomID)
	default:
		cerr = coreError(ErrCodeValidation, "unknown command")
	}

	if cerr != nil {
		c.trySend(&Event{Kind: EventError, Error: cerr})
	}
}

func (s *Service) createRoom(ctx context.Context, c *Client, name string) *CoreError {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minRoomNameLen {
		return coreError(ErrCodeValidation, "room name must be at least 3 characters long")
	}

	room, err := s.store.CreateRoom(ctx, name, c.UserID)
	if err != nil {
		return s.internal(err, "create room")
	}

	s.log.Info().Int64("room_id", room.ID).Int64("creator_id", c.UserID).Str("name", room.Name).Msg("room created")

	// All of the creator's connections learn about the new room.
	return s.pushRooms(ctx, c.UserID)
}

func (s *Service) joinRoom(ctx context.Context, c *Client, roomID int64) *CoreError {
	room, cerr := s.loadRoom(ctx, roomID)
	if cerr != nil {
		return cerr
	}

	ok, err := s.store.IsParticipant(ctx, roomID, c.UserID)
	if err != nil {
		return s.internal(err, "check participant")
	}
	if !ok {
		return coreError(ErrCodeForbidden, "not authorized to join this room")
	}

	snapshot, cerr := s.snapshotRoom(ctx, room)
	if cerr != nil {
		return cerr
	}

	s.hub.Subscribe(roomID, c)
	c.trySend(&Event{Kind: EventRoomData, RoomID: roomID, Room: snapshot})
	return nil
}

func (s *Service) leaveRoom(c *Client, roomID int64) {
	// Idempotent: leaving a room the client never joined is a no-op.
	s.hub.Unsubscribe(roomID, c)
}

func (s *Service) getMessages(ctx context.Context, c *Client, roomID int64) *CoreError {
	if _, cerr := s.loadRoom(ctx, roomID); cerr != nil {
		return cerr
	}

	ok, err := s.store.IsParticipant(ctx, roomID, c.UserID)
	if err != nil {
		return s.internal(err, "check participant")
	}
	if !ok {
		return coreError(ErrCodeForbidden, "not authorized to read this room")
	}

	messages, err := s.store.ListMessages(ctx, roomID)
	if err != nil {
		return s.internal(err, "list messages")
	}

	snapshots := make([]MessageSnapshot, 0, len(messages))
	senders := make(map[int64]UserRef)
	for _, msg := range messages {
		sender, ok := senders[msg.SenderID]
		if !ok {
			ref, cerr := s.userRef(ctx, msg.SenderID)
			if cerr != nil {
				return cerr
			}
			sender = ref
			senders[msg.SenderID] = sender
		}
		snapshots = append(snapshots, MessageSnapshot{
			ID:        msg.ID,
			RoomID:    msg.RoomID,
			Sender:    sender,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		})
	}

	c.trySend(&Event{Kind: EventMessages, RoomID: roomID, Messages: snapshots})
	return nil
}

func (s *Service) sendMessage(ctx context.Context, c *Client, roomID int64, text string) *CoreError {
	text = strings.TrimSpace(text)
	if text == "" {
		return coreError(ErrCodeValidation, "message text is required")
	}

	if _, cerr := s.loadRoom(ctx, roomID); cerr != nil {
		return cerr
	}

	ok, err := s.store.IsParticipant(ctx, roomID, c.UserID)
	if err != nil {
		return s.internal(err, "check participant")
	}
	if !ok {
		return coreError(ErrCodeForbidden, "not authorized to send to this room")
	}

	sender, cerr := s.userRef(ctx, c.UserID)
	if cerr != nil {
		return cerr
	}

	// Persist, then publish, under the room lock: subscribers must observe
	// messages in the order they were stored. A publish miss for a slow
	// subscriber never rolls persistence back; the message is durable and
	// shows up on the next history fetch.
	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	msg := &store.Message{RoomID: roomID, SenderID: c.UserID, Content: text}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return s.internal(err, "save message")
	}

	s.hub.Publish(roomID, &Event{
		Kind:   EventMessage,
		RoomID: roomID,
		Message: &MessageSnapshot{
			ID:        msg.ID,
			RoomID:    msg.RoomID,
			Sender:    sender,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		},
	})
	return nil
}

func (s *Service) deleteMessage(ctx context.Context, c *Client, messageID int64) *CoreError {
	msg, err := s.store.GetMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return coreError(ErrCodeNotFound, "message not found")
		}
		return s.internal(err, "load message")
	}

	if msg.SenderID != c.UserID {
		return coreError(ErrCodeForbidden, "not authorized to delete this message")
	}

	lock := s.roomLock(msg.RoomID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.store.DeleteMessage(ctx, messageID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return s.internal(err, "delete message")
	}

	s.hub.Publish(msg.RoomID, &Event{Kind: EventMessageDeleted, RoomID: msg.RoomID, MessageID: messageID})
	return nil
}

func (s *Service) deleteRoom(ctx context.Context, c *Client, roomID int64) *CoreError {
	room, cerr := s.loadRoom(ctx, roomID)
	if cerr != nil {
		return cerr
	}

	if room.CreatorID != c.UserID {
		return coreError(ErrCodeForbidden, "not authorized to delete this room")
	}

	lock := s.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	// Cascade delete is the durability boundary; the broadcast after it is
	// best-effort and never blocks or reverses the deletion.
	if err := s.store.DeleteRoom(ctx, roomID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return s.internal(err, "delete room")
	}

	s.log.Info().Int64("room_id", roomID).Int64("user_id", c.UserID).Msg("room deleted")

	s.hub.PublishAll(&Event{Kind: EventRoomDeleted, RoomID: roomID})
	s.hub.DropRoom(roomID)
	return nil
}

func (s *Service) addParticipant(ctx context.Context, c *Client, roomID int64, username string) *CoreError {
	room, cerr := s.loadRoom(ctx, roomID)
	if cerr != nil {
		return cerr
	}

	if room.CreatorID != c.UserID {
		return coreError(ErrCodeForbidden, "only the room creator can add users")
	}

	target, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return coreError(ErrCodeNotFound, "user not found")
		}
		return s.internal(err, "load user")
	}

	added, err := s.store.AddParticipant(ctx, roomID, target.ID)
	if err != nil {
		return s.internal(err, "add participant")
	}
	if !added {
		return coreError(ErrCodeConflict, "user is already in this room")
	}

	snapshot, cerr := s.snapshotRoom(ctx, room)
	if cerr != nil {
		return cerr
	}

	s.log.Info().Int64("room_id", roomID).Str("username", target.Username).Int64("added_by", c.UserID).Msg("participant added")

	// Everyone sees the updated room, the target's devices get a fresh
	// room list, subscribers get the new participant set, and the caller
	// gets an acknowledgement.
	s.hub.PublishAll(&Event{Kind: EventRoomUpdated, RoomID: roomID, Room: snapshot})
	if cerr := s.pushRooms(ctx, target.ID); cerr != nil {
		return cerr
	}
	s.hub.Publish(roomID, &Event{Kind: EventRoomParticipants, RoomID: roomID, Participants: snapshot.Participants})
	c.trySend(&Event{Kind: EventSuccess, RoomID: roomID, Info: target.Username + " has been added to the room"})
	return nil
}

func (s *Service) getParticipants(ctx context.Context, c *Client, roomID int64) *CoreError {
	room, cerr := s.loadRoom(ctx, roomID)
	if cerr != nil {
		return cerr
	}

	ok, err := s.store.IsParticipant(ctx, roomID, c.UserID)
	if err != nil {
		return s.internal(err, "check participant")
	}
	if !ok {
		return coreError(ErrCodeForbidden, "not authorized to read this room")
	}

	snapshot, cerr := s.snapshotRoom(ctx, room)
	if cerr != nil {
		return cerr
	}

	c.trySend(&Event{Kind: EventRoomParticipants, RoomID: roomID, Participants: snapshot.Participants})
	return nil
}

// ==== helpers ====

func (s *Service) loadRoom(ctx context.Context, roomID int64) (*store.Room, *CoreError) {
	room, err := s.store.GetRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, coreError(ErrCodeNotFound, "chat room not found")
		}
		return nil, s.internal(err, "load room")
	}
	return room, nil
}

func (s *Service) userRef(ctx context.Context, userID int64) (UserRef, *CoreError) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return UserRef{}, coreError(ErrCodeNotFound, "user not found")
		}
		return UserRef{}, s.internal(err, "load user")
	}
	return UserRef{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *Service) snapshotRoom(ctx context.Context, room *store.Room) (*RoomSnapshot, *CoreError) {
	creator, cerr := s.userRef(ctx, room.CreatorID)
	if cerr != nil {
		return nil, cerr
	}

	participants, err := s.store.ListParticipants(ctx, room.ID)
	if err != nil {
		return nil, s.internal(err, "list participants")
	}

	refs := make([]UserRef, 0, len(participants))
	for _, p := range participants {
		refs = append(refs, UserRef{
			ID:        p.ID,
			Username:  p.Username,
			FirstName: p.FirstName,
			LastName:  p.LastName,
		})
	}

	return &RoomSnapshot{
		ID:           room.ID,
		Name:         room.Name,
		Creator:      creator,
		Participants: refs,
		CreatedAt:    room.CreatedAt,
	}, nil
}

func (s *Service) roomsSnapshot(ctx context.Context, userID int64) ([]RoomSnapshot, *CoreError) {
	rooms, err := s.store.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, s.internal(err, "list rooms")
	}

	snapshots := make([]RoomSnapshot, 0, len(rooms))
	for _, room := range rooms {
		snapshot, cerr := s.snapshotRoom(ctx, room)
		if cerr != nil {
			return nil, cerr
		}
		snapshots = append(snapshots, *snapshot)
	}
	return snapshots, nil
}

// sendRooms delivers the caller's room list to this connection only.
func (s *Service) sendRooms(ctx context.Context, c *Client) *CoreError {
	snapshots, cerr := s.roomsSnapshot(ctx, c.UserID)
	if cerr != nil {
		return cerr
	}
	c.trySend(&Event{Kind: EventRooms, Rooms: snapshots})
	return nil
}

// pushRooms delivers a user's room list to all of their live connections.
func (s *Service) pushRooms(ctx context.Context, userID int64) *CoreError {
	snapshots, cerr := s.roomsSnapshot(ctx, userID)
	if cerr != nil {
		return cerr
	}
	s.hub.PublishToUser(userID, &Event{Kind: EventRooms, Rooms: snapshots})
	return nil
}

func (s *Service) roomLock(roomID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.roomLocks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		s.roomLocks[roomID] = lock
	}
	return lock
}

// internal logs the full error server-side and returns a generic failure
// for the client.
func (s *Service) internal(err error, msg string) *CoreError {
	s.log.Error().Err(err).Msg(msg)
	return coreError(ErrCodeInternal, "internal error")
}

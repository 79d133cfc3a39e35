package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/parleychat/parley-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func mustCreateUser(t *testing.T, st *SQLiteStore, username string) *store.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), username, username+"@example.com", "hash", "", "")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func TestUserLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user, err := st.CreateUser(ctx, "alice", "alice@example.com", "hash", "Alice", "Smith")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected a generated user id")
	}
	if user.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	byName, err := st.GetUserByUsername(ctx, "alice")
	if err != nil || byName.ID != user.ID {
		t.Fatalf("get by username: %v, %+v", err, byName)
	}
	byEmail, err := st.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || byEmail.ID != user.ID {
		t.Fatalf("get by email: %v, %+v", err, byEmail)
	}

	if _, err := st.GetUserByID(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := st.UpdateProfile(ctx, user.ID, "Alicia", "Jones"); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	updated, err := st.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.FirstName != "Alicia" || updated.LastName != "Jones" {
		t.Fatalf("profile not updated: %+v", updated)
	}

	if err := st.UpdateProfile(ctx, 999, "x", "y"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserUniqueness(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, st, "alice")

	if _, err := st.CreateUser(ctx, "alice", "other@example.com", "hash", "", ""); err == nil {
		t.Fatal("duplicate username must fail")
	}
	if _, err := st.CreateUser(ctx, "alice2", "alice@example.com", "hash", "", ""); err == nil {
		t.Fatal("duplicate email must fail")
	}
}

func TestCreateRoomAddsCreatorAsParticipant(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice")

	room, err := st.CreateRoom(ctx, "general", alice.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if room.Name != "general" || room.CreatorID != alice.ID {
		t.Fatalf("unexpected room %+v", room)
	}

	ok, err := st.IsParticipant(ctx, room.ID, alice.ID)
	if err != nil {
		t.Fatalf("is participant: %v", err)
	}
	if !ok {
		t.Fatal("creator must be a participant of the new room")
	}

	rooms, err := st.ListRoomsForUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != room.ID {
		t.Fatalf("unexpected room list %+v", rooms)
	}
}

func TestAddParticipantIsAddToSet(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice")
	bob := mustCreateUser(t, st, "bob")

	room, err := st.CreateRoom(ctx, "general", alice.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	added, err := st.AddParticipant(ctx, room.ID, bob.ID)
	if err != nil {
		t.Fatalf("add participant: %v", err)
	}
	if !added {
		t.Fatal("first add must report true")
	}

	added, err = st.AddParticipant(ctx, room.ID, bob.ID)
	if err != nil {
		t.Fatalf("repeat add participant: %v", err)
	}
	if added {
		t.Fatal("repeated add must report false")
	}

	participants, err := st.ListParticipants(ctx, room.ID)
	if err != nil {
		t.Fatalf("list participants: %v", err)
	}
	if len(participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(participants))
	}

	if err := st.RemoveParticipant(ctx, room.ID, bob.ID); err != nil {
		t.Fatalf("remove participant: %v", err)
	}
	ok, err := st.IsParticipant(ctx, room.ID, bob.ID)
	if err != nil {
		t.Fatalf("is participant: %v", err)
	}
	if ok {
		t.Fatal("removed user must not be a participant")
	}
}

func TestMessageLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice")
	room, err := st.CreateRoom(ctx, "general", alice.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	msg := &store.Message{RoomID: room.ID, SenderID: alice.ID, Content: "hello"}
	if err := st.SaveMessage(ctx, msg); err != nil {
		t.Fatalf("save message: %v", err)
	}
	if msg.ID == 0 {
		t.Fatal("save must fill in the message id")
	}
	if msg.CreatedAt.IsZero() {
		t.Fatal("save must fill in created_at")
	}

	loaded, err := st.GetMessageByID(ctx, msg.ID)
	if err != nil || loaded.Content != "hello" {
		t.Fatalf("get message: %v, %+v", err, loaded)
	}

	if err := st.DeleteMessage(ctx, msg.ID); err != nil {
		t.Fatalf("delete message: %v", err)
	}
	if _, err := st.GetMessageByID(ctx, msg.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := st.DeleteMessage(ctx, msg.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListMessagesChronological(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice")
	room, err := st.CreateRoom(ctx, "general", alice.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	for _, text := range []string{"one", "two", "three"} {
		if err := st.SaveMessage(ctx, &store.Message{RoomID: room.ID, SenderID: alice.ID, Content: text}); err != nil {
			t.Fatalf("save message: %v", err)
		}
	}

	messages, err := st.ListMessages(ctx, room.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	for i, want := range []string{"one", "two", "three"} {
		if messages[i].Content != want {
			t.Fatalf("message %d: expected %q, got %q", i, want, messages[i].Content)
		}
	}

	n, err := st.CountMessages(ctx, room.ID)
	if err != nil || n != 3 {
		t.Fatalf("count messages: %v, %d", err, n)
	}
}

func TestDeleteRoomCascades(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, st, "alice")
	bob := mustCreateUser(t, st, "bob")

	room, err := st.CreateRoom(ctx, "general", alice.ID)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := st.AddParticipant(ctx, room.ID, bob.ID); err != nil {
		t.Fatalf("add participant: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := st.SaveMessage(ctx, &store.Message{RoomID: room.ID, SenderID: alice.ID, Content: "x"}); err != nil {
			t.Fatalf("save message: %v", err)
		}
	}

	if err := st.DeleteRoom(ctx, room.ID); err != nil {
		t.Fatalf("delete room: %v", err)
	}

	if _, err := st.GetRoomByID(ctx, room.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	n, err := st.CountMessages(ctx, room.ID)
	if err != nil || n != 0 {
		t.Fatalf("expected 0 messages after cascade, got %d (%v)", n, err)
	}
	ok, err := st.IsParticipant(ctx, room.ID, bob.ID)
	if err != nil || ok {
		t.Fatalf("expected no participants after cascade (%v)", err)
	}
	rooms, err := st.ListRoomsForUser(ctx, bob.ID)
	if err != nil || len(rooms) != 0 {
		t.Fatalf("expected empty room list, got %+v (%v)", rooms, err)
	}

	if err := st.DeleteRoom(ctx, room.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

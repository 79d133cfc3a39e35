package core

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/store"
	"github.com/parleychat/parley-server/internal/store/sqlite"
)

func newTestService(t *testing.T) (*Service, *Hub, store.Store) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()
	hub := NewHub(&logger)
	return NewService(st, hub, &logger), hub, st
}

func createTestUser(t *testing.T, st store.Store, username string) *store.User {
	t.Helper()

	user, err := st.CreateUser(context.Background(), username, username+"@example.com", "hash", "", "")
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func connect(t *testing.T, hub *Hub, user *store.User) *Client {
	t.Helper()

	c := NewClient("conn-"+user.Username, user.ID, user.Username)
	hub.RegisterClient(c)
	t.Cleanup(func() { hub.UnregisterClient(c) })
	return c
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// noEvent asserts that no queued event of the given kind exists. It drains
// the channel in the process.
func noEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	for {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v: %+v", kind, ev)
			}
		default:
			return
		}
	}
}

func drainEvents(ch <-chan *Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

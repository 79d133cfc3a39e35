package core

// Client is a single live connection as seen by the core layer. A user may
// hold several clients at once (one per device); each client is bound to
// exactly one user for its whole lifetime.
type Client struct {
	ID       string
	UserID   int64
	Username string
	Events   chan *Event
}

// NewClient constructs a client bound to the given user.
func NewClient(id string, userID int64, username string) *Client {
	return &Client{
		ID:       id,
		UserID:   userID,
		Username: username,
		Events:   make(chan *Event, 32),
	}
}

// trySend queues an event without blocking. A full event channel means the
// consumer is too slow; the event is dropped, not retried.
func (c *Client) trySend(ev *Event) bool {
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}

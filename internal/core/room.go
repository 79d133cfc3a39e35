package core

// room is one registry entry: the set of clients currently subscribed to a
// room's broadcast stream. It is not safe for concurrent use on its own;
// the hub's lock guards every access.
type room struct {
	id      int64
	clients map[*Client]struct{}
}

func newRoom(id int64) *room {
	return &room{
		id:      id,
		clients: make(map[*Client]struct{}),
	}
}

// add inserts a client. Returns true if newly added.
func (r *room) add(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// remove deletes a client. Returns true if the client was subscribed.
func (r *room) remove(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// broadcast sends an event to all subscribed clients except skip (which may
// be nil). Delivery is best-effort per client; slow consumers are dropped.
func (r *room) broadcast(ev *Event, skip *Client) {
	for client := range r.clients {
		if client == skip {
			continue
		}
		client.trySend(ev)
	}
}

func (r *room) empty() bool {
	return len(r.clients) == 0
}

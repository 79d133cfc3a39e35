package core

import (
	"strconv"
	"testing"
)

func BenchmarkPublishFanout(b *testing.B) {
	for _, subscribers := range []int{1, 10, 100} {
		b.Run(strconv.Itoa(subscribers), func(b *testing.B) {
			h := newTestHub()
			clients := make([]*Client, subscribers)
			for i := range clients {
				c := NewClient("c"+strconv.Itoa(i), int64(i+1), "user")
				h.RegisterClient(c)
				h.Subscribe(1, c)
				clients[i] = c
			}
			ev := &Event{Kind: EventMessage, RoomID: 1, Message: &MessageSnapshot{Content: "hello"}}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				h.Publish(1, ev)
				for _, c := range clients {
					drainEvents(c.Events)
				}
			}
		})
	}
}

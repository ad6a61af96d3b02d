// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"log/slog"
	"sync"

	"github.com/danielhkuo/quickly-rank/models"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 16

// Broker fans session events out to subscribers of that session.
// Delivery is best effort: a subscriber whose queue is full misses the
// event and is expected to re-read state on the next one.
type Broker struct {
	mu     sync.Mutex
	rooms  map[string]map[*subscriber]struct{}
	buffer int
}

type subscriber struct {
	ch     chan models.Event
	closed bool
}

func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker{rooms: make(map[string]map[*subscriber]struct{}), buffer: buffer}
}

// Subscribe registers for one session's events. The returned cancel func
// unregisters and closes the channel; it is safe to call more than once.
func (b *Broker) Subscribe(sessionID string) (<-chan models.Event, func()) {
	sub := &subscriber{ch: make(chan models.Event, b.buffer)}

	b.mu.Lock()
	room, ok := b.rooms[sessionID]
	if !ok {
		room = make(map[*subscriber]struct{})
		b.rooms[sessionID] = room
	}
	room[sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub.closed {
			return
		}
		sub.closed = true
		close(sub.ch)
		if room, ok := b.rooms[sessionID]; ok {
			delete(room, sub)
			if len(room) == 0 {
				delete(b.rooms, sessionID)
			}
		}
	}
	return sub.ch, cancel
}

// Publish delivers ev to every current subscriber of ev.SessionID without
// blocking.
func (b *Broker) Publish(ev models.Event) {
	if b == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.rooms[ev.SessionID] {
		select {
		case sub.ch <- ev:
		default:
			slog.Warn("dropping event for slow subscriber", "session_id", ev.SessionID, "kind", ev.Kind)
		}
	}
}

// Subscribers reports how many listeners a session has.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rooms[sessionID])
}

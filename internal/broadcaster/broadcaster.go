// Package broadcaster publishes one-way "refresh complete" events to
// subscribed Server-Sent-Events readers. It is publish-only and
// single-writer: subscribers never share state with each other, and there
// is no duplex channel back to the server (spec §1 Non-goals).
package broadcaster

import (
	"fmt"
	"sync"
)

// RefreshEvent is published after the pipeline swaps the hot cache.
type RefreshEvent struct {
	CycleID string
	TSUnix  int64
}

type subscriber struct {
	id   uint64
	send chan RefreshEvent
}

// Hub tracks subscribed SSE readers and fans out refresh events to them
// non-blocking, dropping a slow subscriber's message rather than stalling
// the broadcaster (adapted from the teacher's websocket Hub register/
// unregister/broadcast channel triad in ws-broadcaster/internal/hub/hub.go;
// the register/unregister channels collapse to a mutex-guarded map here
// since SSE subscribe/unsubscribe happen directly on the handler goroutine,
// not via a dedicated client actor).
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*subscriber
}

// NewHub builds an empty broadcast hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*subscriber)}
}

// Subscribe registers a new reader and returns its event channel and an
// unsubscribe func the caller must invoke when the connection closes.
func (h *Hub) Subscribe() (<-chan RefreshEvent, func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	sub := &subscriber{id: id, send: make(chan RefreshEvent, 8)}
	h.subs[id] = sub
	h.mu.Unlock()

	return sub.send, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if s, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(s.send)
		}
	}
}

// Publish fans a refresh event out to every subscriber, dropping it for any
// subscriber whose buffer is full rather than blocking the pipeline.
func (h *Hub) Publish(evt RefreshEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		select {
		case sub.send <- evt:
		default:
		}
	}
}

// SubscriberCount reports the current number of connected readers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Format renders a RefreshEvent as an SSE wire frame per spec §6: `{ type:
// "refresh", cycle_id, ts }`.
func (e RefreshEvent) Format() string {
	return fmt.Sprintf("event: refresh\ndata: {\"type\":\"refresh\",\"cycle_id\":%q,\"ts\":%d}\n\n", e.CycleID, e.TSUnix)
}

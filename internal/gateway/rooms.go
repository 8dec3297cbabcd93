package gateway

import (
	"context"
	"sync"
)

// Sink delivers one event to a single live connection.
type Sink interface {
	Send(ctx context.Context, event string, payload interface{}) error
}

// Registry owns room membership: order id -> connection id -> sink.
// Rooms are created implicitly on first join and disappear when empty.
// All mutation is serialized behind the mutex so that concurrent
// join/disconnect never lose updates.
type Registry struct {
	mu    sync.RWMutex
	rooms map[uint64]map[string]Sink
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[uint64]map[string]Sink)}
}

// Join adds a connection to the order's room, creating the room on the fly.
func (r *Registry) Join(orderID uint64, connID string, sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[orderID]
	if !ok {
		members = make(map[string]Sink)
		r.rooms[orderID] = members
	}
	members[connID] = sink
}

// Leave removes a connection from one room, deleting the room if it empties.
func (r *Registry) Leave(orderID uint64, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[orderID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, orderID)
	}
}

// Drop removes a connection from every room it belongs to (disconnect path).
func (r *Registry) Drop(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for orderID, members := range r.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, orderID)
		}
	}
}

// Members returns a snapshot of the room so callers can write to sinks
// without holding the lock.
func (r *Registry) Members(orderID uint64) map[string]Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.rooms[orderID]
	if !ok {
		return nil
	}
	out := make(map[string]Sink, len(members))
	for id, sink := range members {
		out[id] = sink
	}
	return out
}

// Rooms reports how many rooms currently exist.
func (r *Registry) Rooms() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Package hub implements the broadcast notifier: an explicit broker
// owning a concurrency-safe set of listener handles.  Delivery is best
// effort, at most once, with no queuing and no replay for listeners
// that join late.  A listener is removed only as a consequence of its
// own send failure, never by the broker mid-iteration.
package hub

import (
    "log"
    "sync"
)

// Event is one state-change notification pushed to every connected
// listener on arrival and departure.
type Event struct {
    Event     string `json:"event"` // "arrived" or "departed"
    SpotID    int    `json:"spot_id"`
    VehicleID string `json:"vehicle_id"`
}

// Listener is one connected subscriber.  Send must be safe for
// concurrent use; a non-nil error marks the listener dead and removes
// it from the broker.
type Listener interface {
    ID() string
    Send(Event) error
}

// Hub fans events out to the current listener set.
type Hub struct {
    mu        sync.RWMutex
    listeners map[string]Listener
}

// New returns an empty Hub.
func New() *Hub {
    return &Hub{listeners: make(map[string]Listener)}
}

// Register adds a listener to the set.
func (h *Hub) Register(l Listener) {
    h.mu.Lock()
    h.listeners[l.ID()] = l
    n := len(h.listeners)
    h.mu.Unlock()
    log.Printf("hub: listener %s connected (total %d)", l.ID(), n)
}

// Unregister removes a listener by id.  Safe to call for listeners that
// are already gone.
func (h *Hub) Unregister(id string) {
    h.mu.Lock()
    _, ok := h.listeners[id]
    delete(h.listeners, id)
    n := len(h.listeners)
    h.mu.Unlock()
    if ok {
        log.Printf("hub: listener %s disconnected (total %d)", id, n)
    }
}

// Count returns the number of connected listeners.
func (h *Hub) Count() int {
    h.mu.RLock()
    defer h.mu.RUnlock()
    return len(h.listeners)
}

// Broadcast delivers the event to every currently-connected listener.
// Each delivery runs in its own goroutine so a slow or dead listener
// cannot block the others; a listener whose send fails unregisters
// itself.  There is no ordering guarantee across listeners and no
// retry.
func (h *Hub) Broadcast(ev Event) {
    h.mu.RLock()
    targets := make([]Listener, 0, len(h.listeners))
    for _, l := range h.listeners {
        targets = append(targets, l)
    }
    h.mu.RUnlock()

    for _, l := range targets {
        go func(l Listener) {
            if err := l.Send(ev); err != nil {
                log.Printf("hub: send to %s failed: %v", l.ID(), err)
                h.Unregister(l.ID())
            }
        }(l)
    }
}

// Package notifier broadcasts reload events to API subscribers.
package notifier

import (
	"sync"
	"time"
)

// Event tells subscribers that taxonomy data changed and should be re-fetched.
type Event struct {
	Version uint64    `json:"version"`
	Reason  string    `json:"reason"`
	At      time.Time `json:"at"`
}

// Notifier fans events out to every subscriber.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
	version   uint64
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel receiving events.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast sends an event to all listeners and returns it.
// A listener whose buffer is full misses the event; the version lets it notice the gap.
func (n *Notifier) Broadcast(reason string) Event {
	n.mu.Lock()
	n.version++
	ev := Event{Version: n.version, Reason: reason, At: time.Now()}
	n.mu.Unlock()

	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// Version returns the number of events broadcast so far.
func (n *Notifier) Version() uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.version
}

// Count returns the number of subscribers.
func (n *Notifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

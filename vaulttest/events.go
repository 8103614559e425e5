package vaulttest

import (
	"sync"

	"github.com/signet-io/vault"
)

// EventRecorder is an event sink capturing everything emitted, in order.
type EventRecorder struct {
	mu     sync.Mutex
	events []vault.Event
}

var _ vault.Emitter = (*EventRecorder)(nil)

// Emit stores the event.
func (r *EventRecorder) Emit(ev vault.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns all captured events in delivery order.
func (r *EventRecorder) Events() []vault.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	evs := make([]vault.Event, len(r.events))
	copy(evs, r.events)
	return evs
}

// Reset drops all captured events.
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

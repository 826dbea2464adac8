package notify

import (
	"context"
	"sync"
)

// RecordingDispatcher collects events in memory. Used in tests and as a
// no-op dispatcher when no broker is configured.
type RecordingDispatcher struct {
	mu     sync.Mutex
	events []Event
}

func NewRecordingDispatcher() *RecordingDispatcher {
	return &RecordingDispatcher{}
}

func (d *RecordingDispatcher) Notify(_ context.Context, event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *RecordingDispatcher) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// EventsOfKind filters recorded events by kind.
func (d *RecordingDispatcher) EventsOfKind(kind Kind) []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []Event
	for _, e := range d.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

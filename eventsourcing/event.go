package eventsourcing

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Event is a domain event describing a change that has happened to an aggregate.
// Implementations are immutable value types: once constructed (and validated)
// they are never modified, whether buffered for persistence or replayed.
type Event interface {
	AggregateID() string
	EventType() string
}

// Envelope wraps a domain event with the persistence metadata the store needs:
// the stream it belongs to, its 1-based position within that stream, and when
// it occurred.
type Envelope struct {
	EventID    uuid.UUID
	StreamID   string
	Metadata   map[string]any
	Event      Event
	Version    uint64
	OccurredAt time.Time
}

// now is swapped out by tests that need a deterministic clock.
var now = time.Now

// NewEnvelope wraps an event for appending at the given 1-based position in
// the stream.
func NewEnvelope(stream string, event Event, version uint64) Envelope {
	return Envelope{
		EventID:    uuid.New(),
		StreamID:   stream,
		Metadata:   make(map[string]any),
		Event:      event,
		Version:    version,
		OccurredAt: now(),
	}
}

// TypeName returns the bare type name of v, without package qualifier or
// pointer marker. It is the default EventType implementation for event types:
//
//	func (e OrderPlaced) EventType() string { return eventsourcing.TypeName(e) }
func TypeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

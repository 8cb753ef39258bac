package eventsourcing

import (
	"context"
	"fmt"
)

// Aggregate is the interface all event-sourced aggregates implement. The
// methods are provided by an embedded Root; the aggregate itself contributes
// only its transition function and its guarded command methods.
type Aggregate interface {

	// EntityID returns the unique identifier of the aggregate.
	EntityID() string

	// StreamID returns the event-store key of the aggregate instance.
	StreamID() string

	// AggregateVersion returns the number of events replayed or persisted
	// so far. It is the expected revision for the next append.
	AggregateVersion() uint64

	// UncommittedEvents returns the events applied since the last store.
	UncommittedEvents() []Envelope

	// ClearUncommittedEvents drops the buffered events without persisting.
	ClearUncommittedEvents()

	// Load rehydrates the aggregate by replaying its stream.
	Load(ctx context.Context, store EventStore) error

	// Store flushes the buffered events with an expected-version check.
	Store(ctx context.Context, store EventStore) (AppendResult, error)
}

// Root carries the generic mechanics shared by all aggregates: load by
// replay, version tracking, buffering of newly applied events, and flushing
// them to the store with an optimistic-concurrency check.
//
// A Root is parameterized over the aggregate's own transition function, an
// exhaustive switch over the aggregate's closed event set. Replay and live
// application run through the same fold, so a reconstructed aggregate and a
// freshly mutated one cannot disagree. Every state mutation, success or
// failure alike, goes through Apply; there is no other write path.
type Root struct {
	id         string
	stream     string
	transition func(Event)
	v          uint64
	pending    []Envelope
}

// NewRoot creates the mechanics for one aggregate instance. typeName is the
// aggregate's stream type name (for example "Orders::Order"); transition is
// the aggregate's own state fold.
func NewRoot(typeName, id string, transition func(Event)) Root {
	return Root{
		id:         id,
		stream:     StreamName(typeName, id),
		transition: transition,
	}
}

// EntityID implements the EntityID method of the Aggregate interface.
func (r *Root) EntityID() string {
	return r.id
}

// StreamID implements the StreamID method of the Aggregate interface.
func (r *Root) StreamID() string {
	return r.stream
}

// AggregateVersion implements the AggregateVersion method of the Aggregate
// interface.
func (r *Root) AggregateVersion() uint64 {
	return r.v
}

// UncommittedEvents implements the UncommittedEvents method of the Aggregate
// interface.
func (r *Root) UncommittedEvents() []Envelope {
	return r.pending
}

// ClearUncommittedEvents implements the ClearUncommittedEvents method of the
// Aggregate interface.
func (r *Root) ClearUncommittedEvents() {
	r.pending = nil
}

// Apply runs the event through the aggregate's transition and buffers it for
// persistence. Command methods call Apply with the success event when their
// guard holds and with the corresponding failure event when it does not; both
// paths are ordinary applications, not raised errors.
func (r *Root) Apply(event Event) {
	r.transition(event)
	version := r.v + uint64(len(r.pending)) + 1
	r.pending = append(r.pending, NewEnvelope(r.stream, event, version))
}

// Load rehydrates the aggregate by replaying its stream from the start.
// Replay is a pure fold: stored events are trusted and not re-validated, and
// nothing is buffered. After Load the version equals the number of events
// replayed.
func (r *Root) Load(ctx context.Context, store EventStore) error {
	it, err := store.LoadStream(ctx, r.stream)
	if err != nil {
		return fmt.Errorf("load %q: %w", r.stream, err)
	}

	for it.Next(ctx) {
		env := it.Value()
		r.transition(env.Event)
		r.v = env.Version
	}

	if err := it.Err(); err != nil {
		return fmt.Errorf("load %q: %w", r.stream, err)
	}
	return nil
}

// Store appends all buffered events to the stream, expecting it to still be
// at the version observed during Load. On success the version advances by the
// number appended and the buffer is cleared. Storing with nothing buffered is
// a successful no-op.
func (r *Root) Store(ctx context.Context, store EventStore) (AppendResult, error) {
	if len(r.pending) == 0 {
		return AppendResult{Successful: true, NextExpectedVersion: r.v}, nil
	}

	result, err := store.Save(ctx, r.pending, Revision(r.v))
	if err != nil {
		return result, fmt.Errorf("store %q: %w", r.stream, err)
	}

	r.v += uint64(len(r.pending))
	r.pending = nil
	return result, nil
}

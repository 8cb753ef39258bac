package eventsourcing

import (
	"context"
)

// EventStore is the contract for an append-only, per-stream event log.
//
// Implementations must guarantee:
//   - Events for a given stream are stored contiguously, in append order.
//   - Concurrency control based on the supplied StreamState: a stale Revision
//     rejects the whole batch atomically with *StreamRevisionConflictError.
//   - LoadStream yields events oldest to newest; an unknown stream yields an
//     empty iterator, not an error (a brand-new aggregate).
type EventStore interface {
	// Save appends all events in the given batch to the stream named by the
	// envelopes' StreamID, after checking the revision requirement. Every
	// envelope in one batch must carry the same StreamID. Payloads are
	// schema-validated before anything is written.
	Save(ctx context.Context, events []Envelope, revision StreamState) (AppendResult, error)

	// LoadStream loads all events for the given stream from the start.
	LoadStream(ctx context.Context, stream string) (*Iterator[*Envelope], error)

	// LoadStreamFrom loads events for the given stream starting after the
	// given version (LoadStreamFrom(ctx, s, 0) is equivalent to LoadStream).
	LoadStreamFrom(ctx context.Context, stream string, version uint64) (*Iterator[*Envelope], error)

	// Close releases any resources held by the store. Close is idempotent.
	Close() error
}

// AppendResult describes the outcome of an append operation.
type AppendResult struct {
	Successful          bool
	NextExpectedVersion uint64
}

// Publish appends a single standalone event at the stream's current head,
// with no concurrency requirement. It is used for initial events such as a
// product registration, where no prior state is replayed.
func Publish(ctx context.Context, store EventStore, stream string, event Event) (AppendResult, error) {
	it, err := store.LoadStream(ctx, stream)
	if err != nil {
		return AppendResult{}, err
	}
	var version uint64
	for it.Next(ctx) {
		version = it.Value().Version
	}
	if err := it.Err(); err != nil {
		return AppendResult{}, err
	}
	env := NewEnvelope(stream, event, version+1)
	return store.Save(ctx, []Envelope{env}, Revision(version))
}

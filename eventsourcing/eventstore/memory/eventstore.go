package memory

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	es "github.com/terraskye/commerce/eventsourcing"
)

var _ es.EventStore = (*Store)(nil)

// Store is an in-memory, append-only event store keyed by stream name. It is
// safe for concurrent use; optimistic concurrency is enforced per stream via
// the StreamState supplied on Save.
type Store struct {
	tracer  trace.Tracer
	mu      sync.RWMutex
	bus     es.EventBus
	streams map[string][]*es.Envelope
}

// NewStore creates an empty store. A non-nil bus receives every successfully
// appended event, after the append is fully committed.
func NewStore(bus es.EventBus) *Store {
	return &Store{
		tracer:  otel.Tracer("eventstore.memory"),
		bus:     bus,
		streams: make(map[string][]*es.Envelope),
	}
}

func (m *Store) Save(ctx context.Context, events []es.Envelope, revision es.StreamState) (es.AppendResult, error) {
	ctx, span := m.tracer.Start(ctx, "eventstore.save",
		trace.WithAttributes(attribute.Int("event.count", len(events))),
	)
	defer span.End()

	if len(events) == 0 {
		return es.AppendResult{Successful: true}, nil
	}

	stream := events[0].StreamID
	for i, env := range events {
		if env.StreamID != stream {
			return es.AppendResult{}, fmt.Errorf(
				"save events to stream %q: %w: event %d has different stream ID %q",
				stream, es.ErrInvalidEventBatch, i, env.StreamID,
			)
		}
		if err := es.Validate(env.Event); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return es.AppendResult{}, err
		}
	}

	currentVersion, err := m.append(stream, events, revision)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if es.IsConflict(err) && es.IsInitialized() {
			es.ConcurrencyConflicts.Add(ctx, 1,
				metric.WithAttributes(attribute.String("event.stream", stream)))
		}
		return es.AppendResult{}, err
	}

	for i := range events {
		span.AddEvent("Stored event",
			trace.WithAttributes(
				attribute.String("event.stream", stream),
				attribute.String("event.type", events[i].Event.EventType()),
				attribute.Int("event.version", int(events[i].Version)),
			),
		)
	}

	if es.IsInitialized() {
		es.EventsAppended.Add(ctx, int64(len(events)))
		es.StreamVersions.Record(ctx, int64(currentVersion),
			metric.WithAttributes(attribute.String("event.stream", stream)))
	}

	// Publication happens after the append is committed and the stream lock
	// is released, so subscribers may read from or append to this store. A
	// failed publish cannot un-append: it is recorded on the span, not
	// reported to the caller.
	if m.bus != nil {
		for i := range events {
			if err := m.bus.Publish(es.WithEnvelope(ctx, &events[i]), events[i].Event); err != nil {
				span.RecordError(err)
			}
		}
	}

	return es.AppendResult{
		Successful:          true,
		NextExpectedVersion: currentVersion,
	}, nil
}

// append holds the stream lock only for the revision check and the append
// itself, never across publication.
func (m *Store) append(stream string, events []es.Envelope, revision es.StreamState) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	currentVersion := uint64(len(m.streams[stream]))

	switch rev := revision.(type) {
	case es.Any:
		// No concurrency check
	case es.NoStream:
		if currentVersion != 0 {
			return 0, fmt.Errorf("stream %q: %w", stream, es.ErrStreamExists)
		}
	case es.StreamExists:
		if currentVersion == 0 {
			return 0, fmt.Errorf("stream %q: %w", stream, es.ErrStreamNotFound)
		}
	case es.Revision:
		if currentVersion != uint64(rev) {
			return 0, &es.StreamRevisionConflictError{
				Stream:           stream,
				ExpectedRevision: rev,
				ActualRevision:   es.Revision(currentVersion),
			}
		}
	default:
		return 0, fmt.Errorf("stream %q: %w: %T", stream, es.ErrInvalidRevision, revision)
	}

	for i := range events {
		m.streams[stream] = append(m.streams[stream], &events[i])
		currentVersion++
	}
	return currentVersion, nil
}

func (m *Store) LoadStream(ctx context.Context, stream string) (*es.Iterator[*es.Envelope], error) {
	return m.LoadStreamFrom(ctx, stream, 0)
}

func (m *Store) LoadStreamFrom(ctx context.Context, stream string, version uint64) (*es.Iterator[*es.Envelope], error) {
	_, span := m.tracer.Start(ctx, "eventstore.load",
		trace.WithAttributes(
			attribute.String("event.stream", stream),
			attribute.Int("start_version", int(version)),
		),
	)
	defer span.End()

	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.streams[stream]
	if version > uint64(len(stored)) {
		version = uint64(len(stored))
	}
	// Copy so concurrent appends cannot shift the snapshot under the iterator.
	snapshot := make([]*es.Envelope, len(stored)-int(version))
	copy(snapshot, stored[version:])

	if es.IsInitialized() {
		es.EventsLoaded.Add(ctx, int64(len(snapshot)))
	}

	return es.NewSliceIterator(snapshot), nil
}

// Close drops all stored events. Close is idempotent.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streams = make(map[string][]*es.Envelope)
	return nil
}

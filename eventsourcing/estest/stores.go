package estest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	es "github.com/terraskye/commerce/eventsourcing"
)

// StoreSpy is a configurable fake EventStore for testing.
// It tracks calls and allows injecting custom behavior or failures.
type StoreSpy struct {
	mu sync.Mutex

	// Function overrides for custom behavior
	LoadStreamFn func(ctx context.Context, stream string) (*es.Iterator[*es.Envelope], error)
	SaveFn       func(ctx context.Context, events []es.Envelope, revision es.StreamState) (es.AppendResult, error)

	// Call tracking
	LoadStreamCalls int
	SaveCalls       int

	// Captured arguments from last Save
	LastSaveEvents   []es.Envelope
	LastSaveRevision es.StreamState

	// Pre-configured data, streamID -> envelopes
	events map[string][]*es.Envelope

	// Error injection
	loadErr error
	saveErr error
}

var _ es.EventStore = (*StoreSpy)(nil)

// NewStoreSpy creates a new StoreSpy with default behavior: saves append to
// an in-memory map with a Revision check, loads replay what was saved.
func NewStoreSpy() *StoreSpy {
	return &StoreSpy{
		events: make(map[string][]*es.Envelope),
	}
}

// WithEvents pre-populates a stream, numbering the envelopes from 1.
func (s *StoreSpy) WithEvents(stream string, events ...es.Event) *StoreSpy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[stream] = Envelopes(stream, events...)
	return s
}

// FailOnLoad configures the store to return an error on load operations.
func (s *StoreSpy) FailOnLoad(err error) *StoreSpy {
	s.loadErr = err
	return s
}

// FailOnSave configures the store to return an error on save operations.
func (s *StoreSpy) FailOnSave(err error) *StoreSpy {
	s.saveErr = err
	return s
}

// Stream returns the envelopes currently recorded for the stream.
func (s *StoreSpy) Stream(stream string) []*es.Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*es.Envelope(nil), s.events[stream]...)
}

// Events returns just the domain events recorded for the stream.
func (s *StoreSpy) Events(stream string) []es.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]es.Event, 0, len(s.events[stream]))
	for _, env := range s.events[stream] {
		out = append(out, env.Event)
	}
	return out
}

func (s *StoreSpy) LoadStream(ctx context.Context, stream string) (*es.Iterator[*es.Envelope], error) {
	s.mu.Lock()
	s.LoadStreamCalls++
	s.mu.Unlock()

	if s.LoadStreamFn != nil {
		return s.LoadStreamFn(ctx, stream)
	}
	if s.loadErr != nil {
		return nil, s.loadErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := append([]*es.Envelope(nil), s.events[stream]...)
	return es.NewSliceIterator(snapshot), nil
}

func (s *StoreSpy) LoadStreamFrom(ctx context.Context, stream string, version uint64) (*es.Iterator[*es.Envelope], error) {
	it, err := s.LoadStream(ctx, stream)
	if err != nil {
		return nil, err
	}
	return es.NewIteratorFunc(func(ctx context.Context) (*es.Envelope, bool, error) {
		for it.Next(ctx) {
			if env := it.Value(); env.Version > version {
				return env, true, nil
			}
		}
		return nil, false, it.Err()
	}), nil
}

func (s *StoreSpy) Save(ctx context.Context, events []es.Envelope, revision es.StreamState) (es.AppendResult, error) {
	s.mu.Lock()
	s.SaveCalls++
	s.LastSaveEvents = events
	s.LastSaveRevision = revision
	s.mu.Unlock()

	if s.SaveFn != nil {
		return s.SaveFn(ctx, events, revision)
	}
	if s.saveErr != nil {
		return es.AppendResult{}, s.saveErr
	}
	if len(events) == 0 {
		return es.AppendResult{Successful: true}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := events[0].StreamID
	current := uint64(len(s.events[stream]))
	if rev, ok := revision.(es.Revision); ok && current != uint64(rev) {
		return es.AppendResult{}, &es.StreamRevisionConflictError{
			Stream:           stream,
			ExpectedRevision: rev,
			ActualRevision:   es.Revision(current),
		}
	}
	for i := range events {
		s.events[stream] = append(s.events[stream], &events[i])
		current++
	}
	return es.AppendResult{Successful: true, NextExpectedVersion: current}, nil
}

func (s *StoreSpy) Close() error { return nil }

// Envelopes wraps events for a stream with contiguous versions from 1 and a
// fixed timestamp, for deterministic fixtures.
func Envelopes(stream string, events ...es.Event) []*es.Envelope {
	at := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	out := make([]*es.Envelope, len(events))
	for i, event := range events {
		out[i] = &es.Envelope{
			EventID:    uuid.New(),
			StreamID:   stream,
			Metadata:   map[string]any{},
			Event:      event,
			Version:    uint64(i + 1),
			OccurredAt: at.Add(time.Duration(i) * time.Second),
		}
	}
	return out
}

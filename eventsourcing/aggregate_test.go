package eventsourcing

import (
	"context"
	"errors"
	"testing"
)

// ---------------------- Test helpers / stubs ----------------------

type counterIncremented struct {
	ID string `json:"id" validate:"required"`
	By int64  `json:"by" validate:"gt=0"`
}

func (e counterIncremented) AggregateID() string { return e.ID }
func (e counterIncremented) EventType() string   { return TypeName(e) }

type counter struct {
	Root
	total int64
}

func newCounter(id string) *counter {
	c := &counter{}
	c.Root = NewRoot("Test::Counter", id, c.transition)
	return c
}

func (c *counter) Increment(by int64) {
	c.Apply(counterIncremented{ID: c.EntityID(), By: by})
}

func (c *counter) transition(event Event) {
	switch e := event.(type) {
	case counterIncremented:
		c.total += e.By
	}
}

type testStore struct {
	loadFn func(ctx context.Context, stream string) (*Iterator[*Envelope], error)
	saveFn func(ctx context.Context, envelopes []Envelope, revision StreamState) (AppendResult, error)

	loadCalled int
	saveCalled int
}

func (s *testStore) Save(ctx context.Context, events []Envelope, revision StreamState) (AppendResult, error) {
	s.saveCalled++
	return s.saveFn(ctx, events, revision)
}

func (s *testStore) LoadStream(ctx context.Context, stream string) (*Iterator[*Envelope], error) {
	s.loadCalled++
	return s.loadFn(ctx, stream)
}

func (s *testStore) LoadStreamFrom(ctx context.Context, stream string, version uint64) (*Iterator[*Envelope], error) {
	return s.LoadStream(ctx, stream)
}

func (s *testStore) Close() error { return nil }

func envelopesFor(stream string, events ...Event) []*Envelope {
	out := make([]*Envelope, len(events))
	for i, event := range events {
		env := NewEnvelope(stream, event, uint64(i+1))
		out[i] = &env
	}
	return out
}

// ---------------------- Tests ----------------------

func TestStreamName(t *testing.T) {
	if got := StreamName("Orders::Order", "o-1"); got != "Orders::Order$o-1" {
		t.Fatalf("unexpected stream name %q", got)
	}
}

func TestRootLoad_ReplaysInOrder(t *testing.T) {
	stream := StreamName("Test::Counter", "c1")
	store := &testStore{
		loadFn: func(ctx context.Context, s string) (*Iterator[*Envelope], error) {
			if s != stream {
				t.Fatalf("loaded wrong stream %q", s)
			}
			return NewSliceIterator(envelopesFor(stream,
				counterIncremented{ID: "c1", By: 1},
				counterIncremented{ID: "c1", By: 2},
				counterIncremented{ID: "c1", By: 3},
			)), nil
		},
	}

	c := newCounter("c1")
	if err := c.Load(context.Background(), store); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.total != 6 {
		t.Fatalf("expected total 6 after replay, got %d", c.total)
	}
	if c.AggregateVersion() != 3 {
		t.Fatalf("expected version 3, got %d", c.AggregateVersion())
	}
	if len(c.UncommittedEvents()) != 0 {
		t.Fatalf("replay must not buffer events")
	}
}

func TestRootLoad_Deterministic(t *testing.T) {
	stream := StreamName("Test::Counter", "c1")
	load := func() *counter {
		store := &testStore{
			loadFn: func(ctx context.Context, s string) (*Iterator[*Envelope], error) {
				return NewSliceIterator(envelopesFor(stream,
					counterIncremented{ID: "c1", By: 5},
					counterIncremented{ID: "c1", By: 7},
				)), nil
			},
		}
		c := newCounter("c1")
		if err := c.Load(context.Background(), store); err != nil {
			t.Fatalf("load failed: %v", err)
		}
		return c
	}

	first, second := load(), load()
	if first.total != second.total || first.AggregateVersion() != second.AggregateVersion() {
		t.Fatalf("replay is not deterministic: %d/%d vs %d/%d",
			first.total, first.AggregateVersion(), second.total, second.AggregateVersion())
	}
}

func TestRootApply_BuffersWithContiguousVersions(t *testing.T) {
	c := newCounter("c1")
	c.Increment(1)
	c.Increment(2)

	pending := c.UncommittedEvents()
	if len(pending) != 2 {
		t.Fatalf("expected 2 buffered events, got %d", len(pending))
	}
	if pending[0].Version != 1 || pending[1].Version != 2 {
		t.Fatalf("expected versions 1,2 got %d,%d", pending[0].Version, pending[1].Version)
	}
	if c.total != 3 {
		t.Fatalf("apply must mutate state, got total %d", c.total)
	}
	// Version only advances on store.
	if c.AggregateVersion() != 0 {
		t.Fatalf("version must not advance before store, got %d", c.AggregateVersion())
	}
}

func TestRootStore_NoOpWhenNothingBuffered(t *testing.T) {
	store := &testStore{
		saveFn: func(ctx context.Context, envelopes []Envelope, revision StreamState) (AppendResult, error) {
			t.Fatalf("Save should not be called with nothing buffered")
			return AppendResult{}, nil
		},
	}

	c := newCounter("c1")
	result, err := c.Store(context.Background(), store)
	if err != nil {
		t.Fatalf("no-op store failed: %v", err)
	}
	if !result.Successful {
		t.Fatalf("no-op store must succeed")
	}
	if store.saveCalled != 0 {
		t.Fatalf("expected no save calls, got %d", store.saveCalled)
	}
}

func TestRootStore_UsesExpectedVersionAndAdvances(t *testing.T) {
	var gotRevision StreamState
	store := &testStore{
		loadFn: func(ctx context.Context, s string) (*Iterator[*Envelope], error) {
			return NewSliceIterator(envelopesFor(s,
				counterIncremented{ID: "c1", By: 1},
				counterIncremented{ID: "c1", By: 1},
			)), nil
		},
		saveFn: func(ctx context.Context, envelopes []Envelope, revision StreamState) (AppendResult, error) {
			gotRevision = revision
			return AppendResult{Successful: true, NextExpectedVersion: 3}, nil
		},
	}

	c := newCounter("c1")
	if err := c.Load(context.Background(), store); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	c.Increment(1)

	if _, err := c.Store(context.Background(), store); err != nil {
		t.Fatalf("store failed: %v", err)
	}
	if rev, ok := gotRevision.(Revision); !ok || rev != 2 {
		t.Fatalf("expected Revision(2), got %#v", gotRevision)
	}
	if c.AggregateVersion() != 3 {
		t.Fatalf("expected version 3 after store, got %d", c.AggregateVersion())
	}
	if len(c.UncommittedEvents()) != 0 {
		t.Fatalf("store must clear the buffer")
	}
}

func TestRootStore_ConflictKeepsBuffer(t *testing.T) {
	store := &testStore{
		saveFn: func(ctx context.Context, envelopes []Envelope, revision StreamState) (AppendResult, error) {
			return AppendResult{}, &StreamRevisionConflictError{
				Stream:           envelopes[0].StreamID,
				ExpectedRevision: 0,
				ActualRevision:   1,
			}
		},
	}

	c := newCounter("c1")
	c.Increment(4)

	_, err := c.Store(context.Background(), store)
	if !IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if c.AggregateVersion() != 0 {
		t.Fatalf("version must not advance on conflict")
	}
	if len(c.UncommittedEvents()) != 1 {
		t.Fatalf("buffer must survive a failed store")
	}
}

func TestPublish_AppendsAtHead(t *testing.T) {
	stream := StreamName("Test::Counter", "c1")
	store := &testStore{
		loadFn: func(ctx context.Context, s string) (*Iterator[*Envelope], error) {
			return NewSliceIterator(envelopesFor(stream,
				counterIncremented{ID: "c1", By: 1},
				counterIncremented{ID: "c1", By: 2},
			)), nil
		},
		saveFn: func(ctx context.Context, envelopes []Envelope, revision StreamState) (AppendResult, error) {
			if rev, ok := revision.(Revision); !ok || rev != 2 {
				t.Fatalf("expected Revision(2), got %#v", revision)
			}
			if len(envelopes) != 1 || envelopes[0].Version != 3 {
				t.Fatalf("expected single event at version 3, got %+v", envelopes)
			}
			return AppendResult{Successful: true, NextExpectedVersion: 3}, nil
		},
	}

	result, err := Publish(context.Background(), store, stream, counterIncremented{ID: "c1", By: 3})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if !result.Successful || result.NextExpectedVersion != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRootLoad_PropagatesStoreError(t *testing.T) {
	store := &testStore{
		loadFn: func(ctx context.Context, s string) (*Iterator[*Envelope], error) {
			return nil, errors.New("db read failure")
		},
	}

	c := newCounter("c1")
	if err := c.Load(context.Background(), store); err == nil {
		t.Fatalf("expected error when LoadStream fails")
	}
}

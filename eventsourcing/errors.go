package eventsourcing

import (
	"errors"
	"fmt"
)

var (
	// ErrStreamExists is returned when appending with NoStream to a stream
	// that already holds events.
	ErrStreamExists = errors.New("stream already exists")

	// ErrStreamNotFound is returned when appending with StreamExists to a
	// stream that holds no events.
	ErrStreamNotFound = errors.New("stream does not exist")

	// ErrInvalidEventBatch is returned when a single Save call mixes events
	// belonging to different streams.
	ErrInvalidEventBatch = errors.New("invalid event batch")

	// ErrInvalidRevision is returned for an unsupported StreamState value.
	ErrInvalidRevision = errors.New("invalid stream revision")

	// ErrDuplicateHandler is returned when two handlers are registered for
	// the same event type.
	ErrDuplicateHandler = errors.New("duplicate handler")
)

// StreamRevisionConflictError reports an optimistic-concurrency conflict:
// another writer advanced the stream between load and save. The append is
// rejected atomically; no partial batch is ever visible.
type StreamRevisionConflictError struct {
	Stream           string
	ExpectedRevision Revision
	ActualRevision   Revision
}

func (e *StreamRevisionConflictError) Error() string {
	return fmt.Sprintf("stream %q revision conflict: expected %d, actual %d",
		e.Stream, e.ExpectedRevision, e.ActualRevision)
}

// IsConflict reports whether err is (or wraps) a stream revision conflict.
func IsConflict(err error) bool {
	var conflict *StreamRevisionConflictError
	return errors.As(err, &conflict)
}

// SchemaValidationError reports an event payload that failed schema
// validation at construction or deserialization time. It indicates a
// programming error, never a recoverable business condition.
type SchemaValidationError struct {
	EventType string
	Err       error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("event %s: schema validation failed: %v", e.EventType, e.Err)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// ErrSkippedEvent is returned when a handler cannot handle the event type.
type ErrSkippedEvent struct {
	Event Event
}

func (e *ErrSkippedEvent) Error() string {
	return fmt.Sprintf("skipped event of type %T", e.Event)
}

// EventStoreError wraps a persistence-layer failure. The surrounding
// transaction is rolled back; no partial event set is ever visible.
type EventStoreError struct {
	Err error
}

func (e *EventStoreError) Error() string {
	return fmt.Sprintf("eventstore error: %v", e.Err)
}

func (e *EventStoreError) Unwrap() error {
	return e.Err
}

func WrapEventStoreError(err error) error {
	if err == nil {
		return nil
	}
	return &EventStoreError{Err: err}
}

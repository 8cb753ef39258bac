package eventsourcing

import (
	"github.com/go-playground/validator/v10"
)

// schema validates event payloads against their struct tags. A single
// instance caches compiled struct metadata, so it is shared process-wide.
var schema = validator.New(validator.WithRequiredStructEnabled())

// Validate checks an event payload against its declared schema (the
// `validate` struct tags on the event type). Construction of an invalid
// event is a fail-fast error; nothing invalid ever reaches a stream.
func Validate(event Event) error {
	if err := schema.Struct(event); err != nil {
		return &SchemaValidationError{EventType: event.EventType(), Err: err}
	}
	return nil
}

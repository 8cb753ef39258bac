package eventsourcing

import "context"

// SubscriberOption customizes a subscription in a bus-specific way.
type SubscriberOption func(cfg any)

// EventBus distributes published events to registered subscribers. It is the
// integration boundary through which listeners translate another context's
// events into local commands; ordering across subscribers is not guaranteed.
type EventBus interface {
	// Subscribe registers a handler under a unique name. The filter decides
	// which events reach the handler; a nil filter receives everything.
	// The subscription is removed when ctx is done.
	Subscribe(ctx context.Context, name string, filter func(Event) bool, handler EventHandler, options ...SubscriberOption) error

	// Publish hands an event to all matching subscribers.
	Publish(ctx context.Context, event Event) error

	// Errors returns an error channel where async handling errors are sent.
	Errors() <-chan error

	// Close closes the EventBus and waits for all handlers to finish.
	Close() error
}

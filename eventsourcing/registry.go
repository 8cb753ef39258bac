package eventsourcing

import (
	"fmt"
	"sync"
)

var (
	// registry maps event names to their factory functions. Each factory
	// must return a new instance of a concrete Event type.
	registry = map[string]func() Event{}

	// mu protects access to the registry for concurrent operations.
	mu sync.RWMutex
)

// RegisterEvent registers an Event type under its default type name so that
// serializing stores can rehydrate it from its stored form. Domain packages
// register their closed event set from init().
//
// Panics on a nil factory, a factory returning nil, or a duplicate name:
// all are programming errors caught at startup.
//
// Example:
//
//	RegisterEvent(func() Event { return &ProductRegistered{} })
func RegisterEvent(fn func() Event) {
	if fn == nil {
		panic("cannot register nil factory")
	}
	RegisterEventByName(fn().EventType(), fn)
}

// RegisterEventByName registers an Event type under a custom name,
// independent of its EventType.
func RegisterEventByName(name string, fn func() Event) {
	if fn == nil {
		panic("cannot register nil factory")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("event already registered: %s", name))
	}

	ev := fn()
	if ev == nil {
		panic(fmt.Sprintf("factory returned nil for event: %s", name))
	}

	registry[name] = fn
}

// NewEventByName creates a new instance of a registered Event by its name.
// It returns an error if the name is not registered.
func NewEventByName(name string) (Event, error) {
	mu.RLock()
	factory, ok := registry[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("event not registered: %s", name)
	}
	ev := factory()
	if ev == nil {
		return nil, fmt.Errorf("factory returned nil for event: %s", name)
	}
	return ev, nil
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	es "github.com/terraskye/commerce/eventsourcing"
)

// delivery is one queued event together with the envelope the publisher had
// in scope, so the handler's context carries the same stream position the
// store stamped at append time.
type delivery struct {
	event es.Event
	env   *es.Envelope
}

type subscriber struct {
	name    string
	filter  func(es.Event) bool
	handler es.EventHandler
	events  chan delivery
	cancel  context.CancelFunc
}

// Bus is an in-memory pub/sub event bus. Each subscriber runs on its own
// worker goroutine with a buffered queue; handler errors are reported on
// Errors, never back to the publisher.
type Bus struct {
	mu         sync.RWMutex
	subs       map[string]*subscriber
	closed     bool
	errs       chan error
	wg         sync.WaitGroup
	bufferSize int
}

var _ es.EventBus = (*Bus)(nil)

// NewBus constructs a new bus with a given subscriber buffer size.
func NewBus(bufferSize int) *Bus {
	return &Bus{
		subs:       make(map[string]*subscriber),
		errs:       make(chan error, 64),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a handler under a unique name. A nil filter matches
// every event. The subscription is removed when ctx finishes.
func (b *Bus) Subscribe(
	ctx context.Context,
	name string,
	filter func(es.Event) bool,
	handler es.EventHandler,
	opts ...es.SubscriberOption,
) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}
	if filter == nil {
		filter = func(es.Event) bool { return true }
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return errors.New("eventbus is closed")
	}

	if _, exists := b.subs[name]; exists {
		return fmt.Errorf("handler with name %q already registered", name)
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	s := &subscriber{
		name:    name,
		filter:  filter,
		handler: handler,
		events:  make(chan delivery, b.bufferSize),
		cancel:  cancel,
	}

	b.subs[name] = s

	b.wg.Add(1)
	go b.runSubscriber(workerCtx, s)

	// Automatically remove when the caller's ctx finishes.
	go func() {
		<-ctx.Done()
		b.removeSubscriber(name)
	}()

	return nil
}

// Publish hands the event to every subscriber whose filter matches. A full
// subscriber queue blocks the publisher rather than dropping the event.
func (b *Bus) Publish(ctx context.Context, event es.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return errors.New("eventbus is closed")
	}

	d := delivery{event: event, env: envelopeFromContext(ctx, event)}
	for _, s := range b.subs {
		if !s.filter(event) {
			continue
		}
		select {
		case s.events <- d:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// envelopeFromContext rebuilds the envelope the publisher stamped into ctx,
// or nil when the event was published bare.
func envelopeFromContext(ctx context.Context, event es.Event) *es.Envelope {
	stream := es.StreamIDFromContext(ctx)
	if stream == "" {
		return nil
	}
	return &es.Envelope{
		EventID:    es.EventIDFromContext(ctx),
		StreamID:   stream,
		Metadata:   es.MetadataFromContext(ctx),
		Event:      event,
		Version:    es.VersionFromContext(ctx),
		OccurredAt: es.OccurredAtFromContext(ctx),
	}
}

func (b *Bus) Errors() <-chan error {
	return b.errs
}

// Close shuts down the bus and waits for all workers.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true

	for _, s := range b.subs {
		s.cancel()
	}
	b.subs = make(map[string]*subscriber)
	b.mu.Unlock()

	b.wg.Wait()
	close(b.errs)
	return nil
}

func (b *Bus) runSubscriber(ctx context.Context, s *subscriber) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-s.events:
			handlerCtx := ctx
			if d.env != nil {
				handlerCtx = es.WithEnvelope(ctx, d.env)
			}
			if err := s.handler.Handle(handlerCtx, d.event); err != nil {
				var skipped *es.ErrSkippedEvent
				if errors.As(err, &skipped) {
					continue
				}
				select {
				case b.errs <- fmt.Errorf("subscriber %q: %w", s.name, err):
				default:
					// Error channel full; drop rather than block delivery.
				}
			}
		}
	}
}

func (b *Bus) removeSubscriber(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.subs[name]; ok {
		s.cancel()
		delete(b.subs, name)
	}
}

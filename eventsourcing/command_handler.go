package eventsourcing

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
)

// CommandHandler is the entry point for one command type: it receives the
// command value and reports the persistence outcome. Domain command handlers
// expose one of these per command; the logging and otel decorators wrap them.
//
// Business-level failures are not errors here: a rejected charge or an
// out-of-state submit is recorded as a failure event and the handler still
// returns a successful AppendResult. Only infrastructural failures (revision
// conflicts, persistence errors, schema violations) surface as errors.
type CommandHandler[C Command] func(ctx context.Context, command C) (AppendResult, error)

// ExecuteOption customizes Execute.
type ExecuteOption func(*executeOptions)

type executeOptions struct {
	// RetryStrategy controls retries after a revision conflict. The default
	// is no retry: the conflict surfaces to the caller, which must re-issue
	// the command against fresh state.
	RetryStrategy backoff.BackOff
}

// WithRetryStrategy opts a caller into automatic retries on revision
// conflicts. Each attempt rebuilds the aggregate from scratch, so a retried
// command always runs against freshly replayed state.
func WithRetryStrategy(strategy backoff.BackOff) ExecuteOption {
	return func(cfg *executeOptions) { cfg.RetryStrategy = strategy }
}

// Execute runs the canonical command cycle for one aggregate instance:
//
//  1. Construct a fresh aggregate via newAggregate.
//  2. Load it by replaying its stream.
//  3. Invoke exactly one command method.
//  4. Store the buffered events with an expected-version check.
//
// The aggregate is discarded afterwards; nothing is cached across commands.
// Execute never inspects the aggregate's resulting state. Business failures
// were already recorded as failure events inside the command method; only
// load and store errors are surfaced.
func Execute[A Aggregate](
	ctx context.Context,
	store EventStore,
	newAggregate func() A,
	command func(A),
	opts ...ExecuteOption,
) (AppendResult, error) {
	cfg := &executeOptions{
		RetryStrategy: &backoff.StopBackOff{},
	}
	for _, o := range opts {
		o(cfg)
	}

	return backoff.RetryWithData(func() (AppendResult, error) {
		aggregate := newAggregate()

		if err := aggregate.Load(ctx, store); err != nil {
			return AppendResult{}, backoff.Permanent(
				fmt.Errorf("execute command on %q: %w", aggregate.StreamID(), err))
		}

		command(aggregate)

		result, err := aggregate.Store(ctx, store)
		if err != nil {
			if IsConflict(err) {
				// Retryable when a strategy was supplied.
				return AppendResult{}, err
			}
			return result, backoff.Permanent(
				fmt.Errorf("execute command on %q: %w", aggregate.StreamID(), err))
		}
		return result, nil
	}, cfg.RetryStrategy)
}

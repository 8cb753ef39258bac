package eventsourcing

import "context"

// Iterator is a pull-based iterator over items of type T. Iteration order is
// determined by the producer; event-store iterators yield oldest to newest.
type Iterator[T any] struct {
	nextFunc func(ctx context.Context) (T, bool, error)
	current  T
	err      error
}

// NewIteratorFunc creates an Iterator from a producer function. The producer
// returns (zero, false, nil) when exhausted, or (zero, false, err) on error.
func NewIteratorFunc[T any](nextFunc func(ctx context.Context) (T, bool, error)) *Iterator[T] {
	return &Iterator[T]{nextFunc: nextFunc}
}

// NewSliceIterator creates an Iterator yielding the given items in order.
func NewSliceIterator[T any](items []T) *Iterator[T] {
	i := 0
	return NewIteratorFunc(func(ctx context.Context) (T, bool, error) {
		var zero T
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}
		if i >= len(items) {
			return zero, false, nil
		}
		item := items[i]
		i++
		return item, true, nil
	})
}

// Next advances the iterator. It returns false when the iterator is exhausted
// or an error occurred; check Err after the loop.
func (it *Iterator[T]) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	var ok bool
	it.current, ok, it.err = it.nextFunc(ctx)
	return ok && it.err == nil
}

// Value returns the item produced by the last successful Next.
func (it *Iterator[T]) Value() T {
	return it.current
}

// Err returns the first error encountered during iteration, if any.
func (it *Iterator[T]) Err() error {
	return it.err
}

// All consumes the iterator and returns the remaining items.
func (it *Iterator[T]) All(ctx context.Context) ([]T, error) {
	var results []T
	for it.Next(ctx) {
		results = append(results, it.Value())
	}
	return results, it.Err()
}

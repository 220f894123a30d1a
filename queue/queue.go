package queue

import (
	"context"
	"errors"
	"fmt"
)

// ErrCanceled is returned from [Bounded.Put] and [Bounded.Take] when the given context is cancelled before the operation can complete.
var ErrCanceled = errors.New("operation canceled")

// Bounded is a fixed-capacity, concurrency-safe FIFO queue with blocking semantics.
// A full queue blocks producers in [Bounded.Put], and an empty queue blocks consumers in [Bounded.Take], providing natural backpressure between the two.
//
// The capacity is fixed at construction and never resized.
// Elements are never coalesced or deduplicated, and insertion order is preserved.
type Bounded[T any] struct {
	elements chan T
}

// NewBounded creates a [Bounded] queue with the given capacity.
// The capacity must be at least 1, or this function will panic.
func NewBounded[T any](capacity int) *Bounded[T] {
	if capacity < 1 {
		panic(fmt.Sprintf("invalid queue capacity '%d'", capacity))
	}
	return &Bounded[T]{
		elements: make(chan T, capacity),
	}
}

// Put appends val to the tail of the queue, blocking while the queue is full.
// If ctx is cancelled before a slot frees, then an error wrapping [ErrCanceled] is returned and val is not enqueued.
func (q *Bounded[T]) Put(ctx context.Context, val T) error {
	select {
	case q.elements <- val:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
	}
}

// Take removes and returns the oldest element of the queue, blocking while the queue is empty.
// If ctx is cancelled before an element is available, then the zero value and an error wrapping [ErrCanceled] are returned.
func (q *Bounded[T]) Take(ctx context.Context) (T, error) {
	select {
	case val := <-q.elements:
		return val, nil
	case <-ctx.Done():
		var mt T
		return mt, fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
	}
}

// TryTake removes and returns the oldest element of the queue without blocking.
// False will be returned if the queue is empty.
func (q *Bounded[T]) TryTake() (T, bool) {
	select {
	case val := <-q.elements:
		return val, true
	default:
		var mt T
		return mt, false
	}
}

// Len gets the number of elements waiting in the queue.
func (q *Bounded[T]) Len() int {
	return len(q.elements)
}

// Cap gets the fixed capacity of the queue.
func (q *Bounded[T]) Cap() int {
	return cap(q.elements)
}

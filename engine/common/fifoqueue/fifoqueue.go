package fifoqueue

import (
	"fmt"

	"github.com/ef-ds/deque"
)

// FifoQueue is a FIFO queue with a fixed capacity and a length observer.
// Push refuses elements once the queue is full; the caller decides what
// happens to them.
//
// Caution:
//   - the queue is NOT concurrency safe, it is meant for the goroutine owning it.
//   - the LengthObserver must be non-blocking.
type FifoQueue[T any] struct {
	queue          deque.Deque
	capacity       int
	lengthObserver LengthObserver
}

// LengthObserver is called with the new length every time the queue's length changes.
type LengthObserver func(int)

type ConstructorOption func(*config) error

type config struct {
	lengthObserver LengthObserver
}

// WithLengthObserver sets the callback invoked on every length change.
func WithLengthObserver(callback LengthObserver) ConstructorOption {
	return func(cfg *config) error {
		if callback == nil {
			return fmt.Errorf("nil is not a valid LengthObserver")
		}
		cfg.lengthObserver = callback
		return nil
	}
}

// NewFifoQueue creates a queue holding at most capacity elements.
func NewFifoQueue[T any](capacity int, options ...ConstructorOption) (*FifoQueue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("capacity for fifo queue must be positive, got %d", capacity)
	}
	cfg := config{lengthObserver: func(int) {}}
	for _, opt := range options {
		err := opt(&cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to apply constructor option to fifo queue: %w", err)
		}
	}
	return &FifoQueue[T]{
		capacity:       capacity,
		lengthObserver: cfg.lengthObserver,
	}, nil
}

// Push appends element to the tail of the queue. It returns false, leaving
// the queue unchanged, if the queue is full.
func (q *FifoQueue[T]) Push(element T) bool {
	if q.queue.Len() >= q.capacity {
		return false
	}
	q.queue.PushBack(element)
	q.lengthObserver(q.queue.Len())
	return true
}

// Pop removes and returns the head of the queue, or false if it is empty.
func (q *FifoQueue[T]) Pop() (T, bool) {
	v, ok := q.queue.PopFront()
	if !ok {
		var zero T
		return zero, false
	}
	q.lengthObserver(q.queue.Len())
	return v.(T), true
}

// Len returns the number of queued elements.
func (q *FifoQueue[T]) Len() int {
	return q.queue.Len()
}

// Cap returns the capacity of the queue.
func (q *FifoQueue[T]) Cap() int {
	return q.capacity
}

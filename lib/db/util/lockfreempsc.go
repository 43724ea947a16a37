// Package util provides concurrency and measurement utilities shared by the
// database engines and the serialized-access coordinator.
//
// LockFreeMPSC is an unbounded Multi-Producer Single-Consumer queue:
//
//   - Lock-free writes: any number of goroutines may Push concurrently,
//     coordinated only through atomic operations
//   - Single consumer: one goroutine drains the queue via the Recv channel
//   - Acceptance order: items are delivered in the order their Push
//     completed. Under concurrent pushes the winner of the atomic append
//     defines that order.
package util

import (
	"runtime"
	"sync/atomic"
)

// node represents a single element in the queue
type node[T any] struct {
	value *T
	next  atomic.Pointer[node[T]]
}

// LockFreeMPSC is a lock-free multi-producer single-consumer queue built on
// a linked list with atomic head/tail pointers. A sentinel node keeps the
// list non-empty so producers never race the consumer on the same pointer.
type LockFreeMPSC[T any] struct {
	head   atomic.Pointer[node[T]]
	tail   atomic.Pointer[node[T]]
	out    chan *T
	notify chan struct{}
	done   chan struct{}
	closed atomic.Bool
}

// NewLockFreeMPSC creates a new queue and starts its consumer goroutine
func NewLockFreeMPSC[T any]() *LockFreeMPSC[T] {
	sentinel := &node[T]{}

	q := &LockFreeMPSC[T]{
		out:    make(chan *T),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	q.head.Store(sentinel)
	q.tail.Store(sentinel)

	go q.consume()

	return q
}

// Push appends an item to the queue.
// Returns true if the item was accepted, or false if the queue is closed.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (q *LockFreeMPSC[T]) Push(value *T) bool {
	if value == nil {
		return false
	}

	if q.closed.Load() {
		return false
	}

	newNode := &node[T]{value: value}

	var backoff uint8 = 0
	for {
		tailNode := q.tail.Load()
		next := tailNode.next.Load()

		if next == nil {
			if tailNode.next.CompareAndSwap(nil, newNode) {
				// appended; the tail CAS may lose to a helping producer,
				// which is fine since tail always catches up
				q.tail.CompareAndSwap(tailNode, newNode)
				q.wake()
				return true
			}
		} else {
			// another producer appended but has not moved tail yet, help it
			q.tail.CompareAndSwap(tailNode, next)
		}

		// exponential backoff under contention
		if backoff < 10 {
			backoff++
		}
		for i := 0; i < 1<<backoff; i++ {
			runtime.Gosched()
		}
	}
}

// wake signals the consumer without blocking the producer
func (q *LockFreeMPSC[T]) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// consume drains the linked list into the output channel
func (q *LockFreeMPSC[T]) consume() {
	defer close(q.done)
	defer close(q.out)

	for {
		delivered := false

		for {
			head := q.head.Load()
			next := head.next.Load()
			if next == nil {
				break
			}

			delivered = true
			value := next.value

			// move head forward, releasing the old node to the GC
			q.head.Store(next)
			q.out <- value
			next.value = nil
		}

		if q.closed.Load() {
			// one final drain happens above before we observe closed
			if head := q.head.Load(); head.next.Load() == nil {
				return
			}
			continue
		}

		if !delivered {
			<-q.notify
		}
	}
}

// Recv returns the receive-only channel the consumer reads from.
// The channel is closed after Close once all accepted items were delivered.
func (q *LockFreeMPSC[T]) Recv() <-chan *T {
	return q.out
}

// Close closes the queue, preventing further writes.
// Items already accepted are still delivered to the consumer.
func (q *LockFreeMPSC[T]) Close() {
	q.closed.Store(true)
	q.wake()
}

// IsClosed returns true if the queue is closed
func (q *LockFreeMPSC[T]) IsClosed() bool {
	return q.closed.Load()
}

// Wait blocks until the consumer has delivered all accepted items after Close
func (q *LockFreeMPSC[T]) Wait() {
	<-q.done
}

// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package queue provides an unbounded multi-producer single-consumer
// queue. Producers hold [Sender] handles (cloned once per producing
// goroutine); exactly one goroutine holds the [Receiver].
//
// Send never blocks and never applies back-pressure: items accumulate
// in memory until the receiver takes them. A consumer that stops
// draining therefore grows the queue without bound. Callers that need
// a cap must enforce it on the consumer side.
//
// Ordering is FIFO for items sent through the same Sender handle. Items
// from different handles interleave in whatever order their Send calls
// acquire the queue lock.
package queue

import (
	"errors"
	"sync"
)

var (
	// ErrEmpty is returned by TryReceive when no item is queued but at
	// least one Sender is still open.
	ErrEmpty = errors.New("queue: empty")

	// ErrDisconnected is returned by Send after the Receiver has been
	// closed, and by TryReceive once every Sender is closed and the
	// queue is drained.
	ErrDisconnected = errors.New("queue: disconnected")

	// ErrSenderClosed is returned by Send on a handle that has already
	// been closed.
	ErrSenderClosed = errors.New("queue: send on closed sender")
)

// shared is the state common to all handles of one queue.
type shared[T any] struct {
	mu    sync.Mutex
	items []T
	// head indexes the next item to receive within items. Consumed
	// slots are compacted away once they make up half of the slice.
	head int

	senders        int
	receiverClosed bool

	// notify has capacity 1. Send performs a non-blocking write so the
	// receiver can wait on it without missing a wakeup.
	notify chan struct{}
}

// Sender is one producer handle. A Sender is safe for concurrent use,
// but the per-producer ordering guarantee applies to sends made through
// one handle from one goroutine.
type Sender[T any] struct {
	queue *shared[T]

	mu     sync.Mutex
	closed bool
}

// Receiver is the single consumer handle. It must be used from one
// goroutine.
type Receiver[T any] struct {
	queue *shared[T]
}

// New creates a queue and returns its first Sender and its Receiver.
func New[T any]() (*Sender[T], *Receiver[T]) {
	queue := &shared[T]{
		senders: 1,
		notify:  make(chan struct{}, 1),
	}
	return &Sender[T]{queue: queue}, &Receiver[T]{queue: queue}
}

// Send enqueues value. It never blocks. Returns ErrDisconnected if the
// Receiver has been closed, or ErrSenderClosed if this handle has been
// closed.
func (s *Sender[T]) Send(value T) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrSenderClosed
	}

	queue := s.queue
	queue.mu.Lock()
	if queue.receiverClosed {
		queue.mu.Unlock()
		return ErrDisconnected
	}
	queue.items = append(queue.items, value)
	queue.mu.Unlock()

	queue.signal()
	return nil
}

// Clone returns a new open handle to the same queue. The queue stays
// connected until every handle, including clones, has been closed.
// Cloning a closed handle is allowed and yields an open handle.
func (s *Sender[T]) Clone() *Sender[T] {
	s.queue.mu.Lock()
	s.queue.senders++
	s.queue.mu.Unlock()
	return &Sender[T]{queue: s.queue}
}

// Close releases this handle. Closing an already closed handle is a
// no-op. When the last handle closes, the receiver observes
// ErrDisconnected after draining the remaining items.
func (s *Sender[T]) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	queue := s.queue
	queue.mu.Lock()
	queue.senders--
	queue.mu.Unlock()

	// Wake a waiting receiver so it can observe disconnection.
	queue.signal()
}

// TryReceive returns the oldest queued item without waiting. Returns
// ErrEmpty when nothing is queued, or ErrDisconnected when nothing is
// queued and no Sender remains open (or the Receiver was closed).
func (r *Receiver[T]) TryReceive() (T, error) {
	queue := r.queue
	queue.mu.Lock()
	defer queue.mu.Unlock()

	var zero T
	if queue.receiverClosed {
		return zero, ErrDisconnected
	}
	if queue.head == len(queue.items) {
		if queue.senders == 0 {
			return zero, ErrDisconnected
		}
		return zero, ErrEmpty
	}

	value := queue.items[queue.head]
	queue.items[queue.head] = zero
	queue.head++

	switch {
	case queue.head == len(queue.items):
		queue.items = queue.items[:0]
		queue.head = 0
	case queue.head > len(queue.items)/2:
		remaining := copy(queue.items, queue.items[queue.head:])
		clear(queue.items[remaining:])
		queue.items = queue.items[:remaining]
		queue.head = 0
	}

	return value, nil
}

// Len returns the number of queued items.
func (r *Receiver[T]) Len() int {
	r.queue.mu.Lock()
	defer r.queue.mu.Unlock()
	return len(r.queue.items) - r.queue.head
}

// Disconnected reports whether TryReceive would return ErrDisconnected:
// the Receiver was closed, or nothing is queued and no Sender remains
// open.
func (r *Receiver[T]) Disconnected() bool {
	queue := r.queue
	queue.mu.Lock()
	defer queue.mu.Unlock()
	return queue.receiverClosed || (queue.head == len(queue.items) && queue.senders == 0)
}

// Notify returns a channel that receives a signal after a Send or a
// Sender Close. At most one signal is buffered, so after waking the
// receiver must drain with TryReceive until ErrEmpty.
func (r *Receiver[T]) Notify() <-chan struct{} {
	return r.queue.notify
}

// Close drops the receiver. Queued items are discarded and every
// subsequent Send fails with ErrDisconnected.
func (r *Receiver[T]) Close() {
	queue := r.queue
	queue.mu.Lock()
	queue.receiverClosed = true
	queue.items = nil
	queue.head = 0
	queue.mu.Unlock()
}

func (q *shared[T]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

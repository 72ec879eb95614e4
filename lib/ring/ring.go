// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ring

import (
	"fmt"
	"iter"
)

// DefaultCapacity is the window size used when no capacity is
// configured: 128 samples.
const DefaultCapacity = 128

// Buffer is a fixed-capacity overwrite-oldest ring of values.
type Buffer[T any] struct {
	data []T
	// head is the position of the oldest stored value.
	head int
	// length is the number of stored values, 0 to len(data).
	length int
	// evicted counts values overwritten by Push since creation or the
	// last Reset.
	evicted uint64
}

// New creates a Buffer holding at most capacity values. The capacity
// must be positive.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic(fmt.Sprintf("ring: capacity must be positive, got %d", capacity))
	}
	return &Buffer[T]{data: make([]T, capacity)}
}

// Push appends value as the newest element. If the buffer is full the
// oldest element is overwritten and Push reports true.
func (b *Buffer[T]) Push(value T) bool {
	capacity := len(b.data)
	if b.length < capacity {
		b.data[(b.head+b.length)%capacity] = value
		b.length++
		return false
	}
	b.data[b.head] = value
	b.head = (b.head + 1) % capacity
	b.evicted++
	return true
}

// Len returns the number of stored values.
func (b *Buffer[T]) Len() int { return b.length }

// Cap returns the fixed capacity.
func (b *Buffer[T]) Cap() int { return len(b.data) }

// Evicted returns how many values have been overwritten.
func (b *Buffer[T]) Evicted() uint64 { return b.evicted }

// At returns the value at logical index i, where 0 is the oldest
// stored value and Len()-1 the newest. Panics if i is out of range.
func (b *Buffer[T]) At(i int) T {
	if i < 0 || i >= b.length {
		panic(fmt.Sprintf("ring: index %d out of range [0, %d)", i, b.length))
	}
	return b.data[(b.head+i)%len(b.data)]
}

// Last returns the newest value. The boolean is false when the buffer
// is empty.
func (b *Buffer[T]) Last() (T, bool) {
	if b.length == 0 {
		var zero T
		return zero, false
	}
	return b.At(b.length - 1), true
}

// All iterates over the stored values oldest first, yielding the
// logical index alongside each value. The buffer must not be modified
// during iteration.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < b.length; i++ {
			if !yield(i, b.data[(b.head+i)%len(b.data)]) {
				return
			}
		}
	}
}

// Values returns a copy of the stored values, oldest first.
func (b *Buffer[T]) Values() []T {
	result := make([]T, 0, b.length)
	for _, value := range b.All() {
		result = append(result, value)
	}
	return result
}

// Reset discards all values and clears the eviction counter. The
// capacity is unchanged.
func (b *Buffer[T]) Reset() {
	clear(b.data)
	b.head = 0
	b.length = 0
	b.evicted = 0
}

// Package deque implements a fixed-capacity double-ended queue, backed by a
// ring buffer that is allocated once, on construction.
package deque

import (
	"iter"
)

// Deque is a bounded FIFO/LIFO ring buffer. It is not safe for concurrent
// use. Instances must be initialized using New.
type Deque[T any] struct {
	s []T
	// r is the index of the front element, within s
	r int
	// n is the number of elements
	n int
}

// New returns an empty Deque with the given fixed capacity, which must be
// positive.
func New[T any](capacity int) *Deque[T] {
	if capacity <= 0 {
		panic(`deque: capacity must be positive`)
	}
	return &Deque[T]{s: make([]T, capacity)}
}

func (x *Deque[T]) index(i int) int {
	i += x.r
	if i >= len(x.s) {
		i -= len(x.s)
	}
	return i
}

// bounds returns the occupied region as up to two contiguous segments,
// s[i1:l1] followed by s[:l2].
func (x *Deque[T]) bounds() (i1, l1, l2 int) {
	if x.n == 0 {
		return
	}
	i1 = x.r
	l1 = x.r + x.n
	if l1 > len(x.s) {
		l2 = l1 - len(x.s)
		l1 = len(x.s)
	}
	return
}

// Cap returns the fixed capacity.
func (x *Deque[T]) Cap() int { return len(x.s) }

// Len returns the number of elements.
func (x *Deque[T]) Len() int { return x.n }

// IsEmpty reports whether there are no elements.
func (x *Deque[T]) IsEmpty() bool { return x.n == 0 }

// IsFull reports whether the deque is at capacity.
func (x *Deque[T]) IsFull() bool { return x.n == len(x.s) }

// PushBack appends value, returning false if the deque is full.
func (x *Deque[T]) PushBack(value T) bool {
	if x.IsFull() {
		return false
	}
	x.s[x.index(x.n)] = value
	x.n++
	return true
}

// PushFront prepends value, returning false if the deque is full.
func (x *Deque[T]) PushFront(value T) bool {
	if x.IsFull() {
		return false
	}
	if x.r == 0 {
		x.r = len(x.s) - 1
	} else {
		x.r--
	}
	x.s[x.r] = value
	x.n++
	return true
}

// PopFront removes and returns the front element.
func (x *Deque[T]) PopFront() (value T, ok bool) {
	if x.n == 0 {
		return
	}
	var zero T
	value, x.s[x.r] = x.s[x.r], zero
	x.r = x.index(1)
	x.n--
	if x.n == 0 {
		x.r = 0
	}
	return value, true
}

// PopBack removes and returns the back element.
func (x *Deque[T]) PopBack() (value T, ok bool) {
	if x.n == 0 {
		return
	}
	var zero T
	i := x.index(x.n - 1)
	value, x.s[i] = x.s[i], zero
	x.n--
	if x.n == 0 {
		x.r = 0
	}
	return value, true
}

// Front returns a pointer to the front element, or nil if empty. The
// pointer is invalidated by any subsequent mutation.
func (x *Deque[T]) Front() *T {
	if x.n == 0 {
		return nil
	}
	return &x.s[x.r]
}

// Back returns a pointer to the back element, or nil if empty.
func (x *Deque[T]) Back() *T {
	if x.n == 0 {
		return nil
	}
	return &x.s[x.index(x.n-1)]
}

// At returns a pointer to the element at offset i from the front.
func (x *Deque[T]) At(i int) *T {
	if i < 0 || i >= x.n {
		panic(`deque: at: index out of range`)
	}
	return &x.s[x.index(i)]
}

// All iterates from front to back, yielding each offset and a pointer to
// the element. The deque must not be modified during iteration.
func (x *Deque[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		i1, l1, l2 := x.bounds()
		var offset int
		for i := i1; i < l1; i++ {
			if !yield(offset, &x.s[i]) {
				return
			}
			offset++
		}
		for i := 0; i < l2; i++ {
			if !yield(offset, &x.s[i]) {
				return
			}
			offset++
		}
	}
}

// Slice returns a copy of the elements, front to back, or nil if empty.
func (x *Deque[T]) Slice() (b []T) {
	if x.n != 0 {
		b = make([]T, x.n)
		i1, l1, l2 := x.bounds()
		copy(b, x.s[i1:l1])
		copy(b[l1-i1:], x.s[:l2])
	}
	return b
}

// Clear removes all elements.
func (x *Deque[T]) Clear() {
	clear(x.s)
	x.r = 0
	x.n = 0
}

// Package debugcell implements a value cell with runtime-checked exclusive
// access, intended to catch aliasing bugs (e.g. a list element reachable via
// two paths at once) while checks are enabled. With checks disabled, it is a
// plain value with no overhead beyond an unused word.
package debugcell

import (
	"sync/atomic"

	"github.com/joeycumines/go-coopsync/internal/checks"
)

// Cell holds a value of type T. The zero value holds the zero value of T.
// A Cell must not be copied after first use.
//
// Access is either exclusive ([Cell.Borrow] / [Cell.Release]), or
// unchecked ([Cell.Ptr]). Overlapping exclusive borrows panic, if checks
// are enabled.
type Cell[T any] struct {
	value    T
	borrowed atomic.Bool
}

// Borrow acquires exclusive access, returning a pointer to the value, which
// must not be retained past the matching call to [Cell.Release].
func (x *Cell[T]) Borrow() *T {
	if checks.Enabled && !x.borrowed.CompareAndSwap(false, true) {
		panic(`debugcell: already borrowed`)
	}
	return &x.value
}

// Release ends an exclusive borrow.
func (x *Cell[T]) Release() {
	if checks.Enabled && !x.borrowed.CompareAndSwap(true, false) {
		panic(`debugcell: release without borrow`)
	}
}

// With calls fn with exclusive access to the value.
func (x *Cell[T]) With(fn func(value *T)) {
	v := x.Borrow()
	defer x.Release()
	fn(v)
}

// Ptr returns a pointer to the value, without any checks. The caller is
// responsible for guaranteeing exclusive access.
func (x *Cell[T]) Ptr() *T {
	return &x.value
}

// Borrowed reports whether the cell is currently exclusively borrowed. It is
// always false if checks are disabled.
func (x *Cell[T]) Borrowed() bool {
	return x.borrowed.Load()
}

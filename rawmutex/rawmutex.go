// Package rawmutex defines the mutual-exclusion capability shared by the
// data structures in this module: a single "run this function while holding
// exclusive access" operation.
//
// The capability is deliberately minimal, so that the same list and channel
// code may be used with a no-op implementation (confined to one goroutine),
// or a blocking mutex (shared between goroutines). Implementations are NOT
// assumed to be reentrant.
package rawmutex

import (
	"sync"
)

type (
	// Mutex runs fn while holding exclusive access. Implementations must
	// not be assumed to be reentrant, i.e. fn must not call Lock on the
	// same Mutex.
	Mutex interface {
		Lock(fn func())
	}

	// Noop performs no synchronization. It is only valid when all access
	// is confined to a single goroutine.
	Noop struct{}

	// Std is a Mutex backed by a sync.Mutex. The zero value is ready to use.
	Std struct {
		mu sync.Mutex
	}

	// Locker adapts an arbitrary sync.Locker.
	Locker struct {
		L sync.Locker
	}
)

var (
	// compile time assertions

	_ Mutex = Noop{}
	_ Mutex = (*Std)(nil)
	_ Mutex = Locker{}
)

// Lock calls fn.
func (Noop) Lock(fn func()) { fn() }

// Lock calls fn while holding the underlying sync.Mutex. The mutex is
// released even if fn panics.
func (x *Std) Lock(fn func()) {
	x.mu.Lock()
	defer x.mu.Unlock()
	fn()
}

// Lock calls fn while holding L.
func (x Locker) Lock(fn func()) {
	if x.L == nil {
		panic(`rawmutex: nil locker`)
	}
	x.L.Lock()
	defer x.L.Unlock()
	fn()
}

// With runs fn while holding m, returning its result.
func With[R any](m Mutex, fn func() R) (r R) {
	m.Lock(func() { r = fn() })
	return
}

// NewStd returns a new Std, typed as a Mutex, for use as a factory.
func NewStd() Mutex { return new(Std) }

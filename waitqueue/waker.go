// Package waitqueue implements wake handles, and a registrar that wakes
// every registered waiter, once per event.
package waitqueue

import (
	"context"
)

type (
	// Waker resumes a suspended task.
	Waker interface {
		// Wake signals the task to retry. It must not block, and may be
		// called at any time, including while locks are held. Each call
		// is a one-shot notification, and wakes are not counted.
		Wake()

		// WillWake reports whether other would wake the same task.
		WillWake(other Waker) bool
	}

	// Signal is a channel-backed [Waker], identifying a single task. Wakes
	// coalesce: at most one is buffered. Signal values must be created
	// using [NewSignal].
	Signal struct {
		ch chan struct{}
	}
)

var (
	// compile time assertions

	_ Waker = (*Signal)(nil)
)

// NewSignal returns a new Signal, with no pending wake.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Wake buffers a wake, if one is not already pending.
func (x *Signal) Wake() {
	select {
	case x.ch <- struct{}{}:
	default:
	}
}

// WillWake reports whether other is the same *Signal.
func (x *Signal) WillWake(other Waker) bool {
	o, ok := other.(*Signal)
	return ok && o == x
}

// C returns the channel that receives a value on wake.
func (x *Signal) C() <-chan struct{} { return x.ch }

// Wait blocks until a wake is received, returning nil, or until ctx is
// done, returning ctx.Err().
func (x *Signal) Wait(ctx context.Context) error {
	select {
	case <-x.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset discards any pending wake.
func (x *Signal) Reset() {
	select {
	case <-x.ch:
	default:
	}
}

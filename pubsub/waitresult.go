package pubsub

import (
	"fmt"
)

// WaitResult is the outcome of a subscriber receive: either a message, or
// a count of messages the subscriber missed, because it fell behind. The
// zero value is a message holding the zero value of T.
type WaitResult[T any] struct {
	message T
	lagged  uint64
}

// Message returns a WaitResult holding a message.
func Message[T any](message T) WaitResult[T] {
	return WaitResult[T]{message: message}
}

// Lagged returns a WaitResult indicating n (which must be positive)
// messages were missed.
func Lagged[T any](n uint64) WaitResult[T] {
	if n == 0 {
		panic(`pubsub: lagged count must be positive`)
	}
	return WaitResult[T]{lagged: n}
}

// IsLagged reports whether messages were missed, rather than received.
func (x WaitResult[T]) IsLagged() bool { return x.lagged != 0 }

// Message returns the received message, which is the zero value if
// lagged.
func (x WaitResult[T]) Message() T { return x.message }

// Lagged returns the number of missed messages, or 0 if a message was
// received.
func (x WaitResult[T]) Lagged() uint64 { return x.lagged }

func (x WaitResult[T]) String() string {
	if x.lagged != 0 {
		return fmt.Sprintf(`Lagged(%d)`, x.lagged)
	}
	return fmt.Sprintf(`Message(%v)`, x.message)
}

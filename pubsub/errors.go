package pubsub

import (
	"errors"
)

var (
	// ErrInvalidCapacity is returned by [New] if the capacity is not
	// positive.
	ErrInvalidCapacity = errors.New(`pubsub: capacity must be positive`)

	// ErrMaximumSubscribersReached is returned by [Channel.Subscriber] if
	// the configured maximum number of subscribers are open.
	ErrMaximumSubscribersReached = errors.New(`pubsub: maximum subscribers reached`)

	// ErrMaximumPublishersReached is returned by [Channel.Publisher] if the
	// configured maximum number of publishers are open.
	ErrMaximumPublishersReached = errors.New(`pubsub: maximum publishers reached`)

	// ErrFull indicates the queue had no space for a message. It is always
	// wrapped by a [*FullError], which carries the rejected message.
	ErrFull = errors.New(`pubsub: channel full`)
)

// FullError is returned by [Publisher.TryPublish] when the queue is full.
// It matches [ErrFull], via errors.Is.
type FullError[T any] struct {
	// Message is the rejected message, returned to the caller intact.
	Message T
}

func (e *FullError[T]) Error() string { return ErrFull.Error() }

func (e *FullError[T]) Unwrap() error { return ErrFull }

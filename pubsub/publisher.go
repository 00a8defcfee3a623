package pubsub

import (
	"context"

	"github.com/joeycumines/go-coopsync/rawmutex"
	"github.com/joeycumines/go-coopsync/waitqueue"
)

// Publisher sends messages to a [Channel]. A Publisher is not safe for
// concurrent use, but any number of publishers may be used concurrently.
type Publisher[T any] struct {
	ch     *Channel[T]
	signal *waitqueue.Signal
	reg    *waitqueue.Registration
	id     uint64
	closed bool
}

func (x *Publisher[T]) check() {
	if x.closed {
		panic(`pubsub: publisher closed`)
	}
}

// TryPublish queues message, without waiting. If the queue is full, it
// returns a [*FullError] holding message. If there are no subscribers,
// message is discarded, and TryPublish succeeds.
func (x *Publisher[T]) TryPublish(message T) error {
	x.check()
	c := x.ch
	if !rawmutex.With(c.mu, func() bool { return c.tryPublish(message) }) {
		return &FullError[T]{Message: message}
	}
	return nil
}

// PublishImmediate queues message, without waiting, evicting the oldest
// queued message if the queue is full. Subscribers that had not received
// the evicted message will observe a [Lagged] result.
func (x *Publisher[T]) PublishImmediate(message T) {
	x.check()
	c := x.ch
	if rawmutex.With(c.mu, func() bool { return c.publishImmediate(message) }) {
		c.logger.Debug().
			Uint64(`publisher`, x.id).
			Log(`pubsub: evicted oldest message`)
	}
}

// Publish queues message, waiting for space, if the queue is full. It
// returns ctx.Err() if ctx is done before the message is queued, in which
// case the message was not queued.
//
// The order in which concurrently waiting publishers are unblocked is
// unspecified.
func (x *Publisher[T]) Publish(ctx context.Context, message T) error {
	x.check()
	if err := ctx.Err(); err != nil {
		return err
	}
	c := x.ch
	defer c.deregister(x.reg)
	for {
		var ok bool
		c.mu.Lock(func() {
			if ok = c.tryPublish(message); !ok {
				x.signal.Reset()
				c.publisherWakers.Update(x.reg, x.signal)
			}
		})
		if ok {
			return nil
		}
		if err := x.signal.Wait(ctx); err != nil {
			return err
		}
	}
}

// Space returns the number of messages that may be published before the
// queue is full.
func (x *Publisher[T]) Space() int {
	x.check()
	return x.ch.Space()
}

// Close deregisters the publisher. It is safe to call multiple times, and
// always returns nil.
func (x *Publisher[T]) Close() error {
	if x.closed {
		return nil
	}
	x.closed = true
	c := x.ch
	c.mu.Lock(func() {
		_ = x.reg.Close()
		c.removePublisher()
	})
	c.logger.Debug().
		Uint64(`publisher`, x.id).
		Log(`pubsub: publisher closed`)
	return nil
}

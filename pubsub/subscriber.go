package pubsub

import (
	"context"

	"github.com/joeycumines/go-coopsync/waitqueue"
)

// Subscriber receives every message published to a [Channel] after it was
// opened, in order, unless it falls behind by more than the channel's
// capacity, see [Lagged]. A Subscriber is not safe for concurrent use.
type Subscriber[T any] struct {
	ch            *Channel[T]
	signal        *waitqueue.Signal
	reg           *waitqueue.Registration
	id            uint64
	nextMessageID uint64
	closed        bool
}

func (x *Subscriber[T]) check() {
	if x.closed {
		panic(`pubsub: subscriber closed`)
	}
}

// poll attempts to receive the next message, registering to be woken, if
// register is true, and there is none.
func (x *Subscriber[T]) poll(register bool) (result WaitResult[T], ok bool) {
	c := x.ch
	c.mu.Lock(func() {
		result, ok = c.getMessage(x.nextMessageID)
		if !ok && register {
			// wakes relevant to this registration happen after it, under mu
			x.signal.Reset()
			c.subscriberWakers.Update(x.reg, x.signal)
		}
	})
	if ok {
		x.advance(result)
	}
	return
}

func (x *Subscriber[T]) advance(result WaitResult[T]) {
	c := x.ch
	if n := result.Lagged(); n != 0 {
		x.nextMessageID += n
		c.counters.lagged.Add(n)
		if b := c.logger.Warning(); b.Enabled() {
			if _, allow := c.lagLimiter.Allow(x.id); allow {
				b.Uint64(`subscriber`, x.id).
					Uint64(`lagged`, n).
					Uint64(`next_message_id`, x.nextMessageID).
					Log(`pubsub: subscriber lagged`)
			} else {
				b.Release()
			}
		}
		return
	}
	x.nextMessageID++
	c.counters.delivered.Add(1)
}

// TryNextMessage receives the next result, without waiting, returning false
// if none is available.
func (x *Subscriber[T]) TryNextMessage() (WaitResult[T], bool) {
	x.check()
	return x.poll(false)
}

// TryNextMessagePure is like [Subscriber.TryNextMessage], but skips lag
// notifications.
func (x *Subscriber[T]) TryNextMessagePure() (message T, ok bool) {
	for {
		var result WaitResult[T]
		if result, ok = x.TryNextMessage(); !ok || !result.IsLagged() {
			return result.Message(), ok
		}
	}
}

// NextMessage waits for the next result. It returns ctx.Err() if ctx is
// done before a result is available.
func (x *Subscriber[T]) NextMessage(ctx context.Context) (WaitResult[T], error) {
	x.check()
	if err := ctx.Err(); err != nil {
		return WaitResult[T]{}, err
	}
	defer x.ch.deregister(x.reg)
	for {
		if result, ok := x.poll(true); ok {
			return result, nil
		}
		if err := x.signal.Wait(ctx); err != nil {
			return WaitResult[T]{}, err
		}
	}
}

// NextMessagePure is like [Subscriber.NextMessage], but skips lag
// notifications.
func (x *Subscriber[T]) NextMessagePure(ctx context.Context) (T, error) {
	for {
		result, err := x.NextMessage(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		if !result.IsLagged() {
			return result.Message(), nil
		}
	}
}

// Available returns the number of messages published since the last
// received, including any that have been missed, due to lag.
func (x *Subscriber[T]) Available() uint64 {
	x.check()
	c := x.ch
	var next uint64
	c.mu.Lock(func() { next = c.state.nextMessageID })
	return next - x.nextMessageID
}

// Close deregisters the subscriber, releasing any messages it had not yet
// received. It is safe to call multiple times, and always returns nil.
func (x *Subscriber[T]) Close() error {
	if x.closed {
		return nil
	}
	x.closed = true
	c := x.ch
	c.mu.Lock(func() {
		_ = x.reg.Close()
		c.removeSubscriber(x.nextMessageID)
	})
	c.logger.Debug().
		Uint64(`subscriber`, x.id).
		Log(`pubsub: subscriber closed`)
	return nil
}

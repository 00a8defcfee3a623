package pubsub

import (
	"sync/atomic"
)

type (
	// Stats is a point-in-time snapshot of a [Channel].
	Stats struct {
		// Capacity is the fixed queue capacity.
		Capacity int
		// Len is the number of queued messages.
		Len int
		// Subscribers is the number of open subscribers.
		Subscribers int
		// Publishers is the number of open publishers.
		Publishers int
		// SubscriberWaiters is the number of subscribers waiting for a
		// message.
		SubscriberWaiters int
		// PublisherWaiters is the number of publishers waiting for space.
		PublisherWaiters int

		// Published is the total number of messages queued.
		Published uint64
		// Dropped is the total number of messages published while there
		// were no subscribers.
		Dropped uint64
		// Evicted is the total number of queued messages discarded to make
		// space, by [Publisher.PublishImmediate].
		Evicted uint64
		// Lagged is the total number of messages missed by subscribers,
		// summed across subscribers.
		Lagged uint64
		// Delivered is the total number of messages received by
		// subscribers.
		Delivered uint64
	}

	channelCounters struct {
		published atomic.Uint64
		dropped   atomic.Uint64
		evicted   atomic.Uint64
		lagged    atomic.Uint64
		delivered atomic.Uint64
	}
)

// Stats returns a snapshot of the channel's state and counters. Fields are
// read without a common lock, so they may be mutually inconsistent while
// the channel is in use.
func (c *Channel[T]) Stats() Stats {
	s := Stats{
		Capacity:  c.Capacity(),
		Published: c.counters.published.Load(),
		Dropped:   c.counters.dropped.Load(),
		Evicted:   c.counters.evicted.Load(),
		Lagged:    c.counters.lagged.Load(),
		Delivered: c.counters.delivered.Load(),
	}
	c.mu.Lock(func() {
		s.Len = c.state.queue.Len()
		s.Subscribers = c.state.subscriberCount
		s.Publishers = c.state.publisherCount
		s.SubscriberWaiters = c.subscriberWakers.Len()
		s.PublisherWaiters = c.publisherWakers.Len()
	})
	return s
}

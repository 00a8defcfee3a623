package pubsub

import (
	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"

	"github.com/joeycumines/go-coopsync/deque"
	"github.com/joeycumines/go-coopsync/rawmutex"
	"github.com/joeycumines/go-coopsync/waitqueue"
)

type (
	// Channel is a bounded, multi-producer, multi-consumer broadcast
	// channel. Every message is delivered to every subscriber open at the
	// time it was published, in publish order. Channels must be created
	// using [New].
	Channel[T any] struct {
		mu rawmutex.Mutex
		// state is guarded by mu
		state channelState[T]
		// wakers are guarded by mu, and use no lock of their own
		subscriberWakers waitqueue.MultiWakerRegistrar
		publisherWakers  waitqueue.MultiWakerRegistrar
		clone            func(T) T
		logger           *logiface.Logger[logiface.Event]
		lagLimiter       *catrate.Limiter
		counters         channelCounters
		maxSubscribers   int
		maxPublishers    int
	}

	channelState[T any] struct {
		queue *deque.Deque[queueEntry[T]]
		// nextMessageID is the id the next queued message will have
		nextMessageID   uint64
		subscriberCount int
		publisherCount  int
		// handles is a counter used to identify handles, in logs
		handles uint64
	}

	queueEntry[T any] struct {
		message T
		// pending is the number of subscribers yet to receive message
		pending int
	}
)

// New returns a channel with a queue of the given capacity, which must be
// positive.
func New[T any](capacity int, opts ...Option) (*Channel[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	cfg, err := resolveChannelOptions(opts)
	if err != nil {
		return nil, err
	}
	clone, err := resolveClone[T](cfg.clone)
	if err != nil {
		return nil, err
	}
	c := &Channel[T]{
		mu:             cfg.mutex(),
		state:          channelState[T]{queue: deque.New[queueEntry[T]](capacity)},
		clone:          clone,
		logger:         cfg.logger,
		maxSubscribers: cfg.maxSubscribers,
		maxPublishers:  cfg.maxPublishers,
	}
	if c.logger != nil {
		if c.lagLimiter, err = newLagLimiter(cfg.lagLogRates); err != nil {
			return nil, err
		}
	}
	c.subscriberWakers.Init(rawmutex.Noop{})
	c.publisherWakers.Init(rawmutex.Noop{})
	return c, nil
}

// deregister removes reg from its wait list, if it is registered.
func (c *Channel[T]) deregister(reg *waitqueue.Registration) {
	c.mu.Lock(func() { _ = reg.Close() })
}

// Capacity returns the fixed queue capacity.
func (c *Channel[T]) Capacity() int { return c.state.queue.Cap() }

// Len returns the number of queued messages, which have not been received
// by every subscriber.
func (c *Channel[T]) Len() int {
	return rawmutex.With(c.mu, c.state.queue.Len)
}

// Space returns the number of messages that may be published before the
// queue is full.
func (c *Channel[T]) Space() int {
	return c.Capacity() - c.Len()
}

// SubscriberCount returns the number of open subscribers.
func (c *Channel[T]) SubscriberCount() int {
	return rawmutex.With(c.mu, func() int { return c.state.subscriberCount })
}

// PublisherCount returns the number of open publishers.
func (c *Channel[T]) PublisherCount() int {
	return rawmutex.With(c.mu, func() int { return c.state.publisherCount })
}

// Subscriber opens a new subscriber, which will receive every message
// published after this call. It must be closed, once no longer needed, or
// publishers will eventually block.
func (c *Channel[T]) Subscriber() (*Subscriber[T], error) {
	var (
		x   *Subscriber[T]
		err error
	)
	c.mu.Lock(func() {
		if c.maxSubscribers > 0 && c.state.subscriberCount >= c.maxSubscribers {
			err = ErrMaximumSubscribersReached
			return
		}
		c.state.subscriberCount++
		c.state.handles++
		x = &Subscriber[T]{
			ch:            c,
			id:            c.state.handles,
			nextMessageID: c.state.nextMessageID,
			signal:        waitqueue.NewSignal(),
			reg:           c.subscriberWakers.Store(),
		}
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Uint64(`subscriber`, x.id).
		Uint64(`next_message_id`, x.nextMessageID).
		Log(`pubsub: subscriber opened`)
	return x, nil
}

// Publisher opens a new publisher.
func (c *Channel[T]) Publisher() (*Publisher[T], error) {
	var (
		x   *Publisher[T]
		err error
	)
	c.mu.Lock(func() {
		if c.maxPublishers > 0 && c.state.publisherCount >= c.maxPublishers {
			err = ErrMaximumPublishersReached
			return
		}
		c.state.publisherCount++
		c.state.handles++
		x = &Publisher[T]{
			ch:     c,
			id:     c.state.handles,
			signal: waitqueue.NewSignal(),
			reg:    c.publisherWakers.Store(),
		}
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Uint64(`publisher`, x.id).
		Log(`pubsub: publisher opened`)
	return x, nil
}

// getMessage must be called while holding mu. It returns false if there
// is no message for id, yet. The caller is responsible for advancing its
// next id, per the result.
func (c *Channel[T]) getMessage(id uint64) (WaitResult[T], bool) {
	s := &c.state
	length := uint64(s.queue.Len())
	startID := s.nextMessageID - length
	if id < startID {
		return Lagged[T](startID - id), true
	}
	offset := id - startID
	if offset >= length {
		return WaitResult[T]{}, false
	}
	entry := s.queue.At(int(offset))
	entry.pending--
	if offset == 0 && entry.pending == 0 {
		// last reader, of the oldest message, takes the original
		e, _ := s.queue.PopFront()
		c.popDrained()
		c.publisherWakers.Wake()
		return Message(e.message), true
	}
	return Message(c.clone(entry.message)), true
}

// popDrained must be called while holding mu. It pops every message at
// the front of the queue that every subscriber has received, returning the
// number popped.
func (c *Channel[T]) popDrained() (n int) {
	for {
		front := c.state.queue.Front()
		if front == nil || front.pending > 0 {
			return
		}
		c.state.queue.PopFront()
		n++
	}
}

// tryPublish must be called while holding mu. It returns false if the
// queue is full.
func (c *Channel[T]) tryPublish(message T) bool {
	s := &c.state
	if s.subscriberCount == 0 {
		c.counters.dropped.Add(1)
		return true
	}
	if !s.queue.PushBack(queueEntry[T]{message: message, pending: s.subscriberCount}) {
		return false
	}
	s.nextMessageID++
	c.counters.published.Add(1)
	c.subscriberWakers.Wake()
	return true
}

// publishImmediate must be called while holding mu. It returns true if a
// message was evicted.
func (c *Channel[T]) publishImmediate(message T) (evicted bool) {
	if c.state.queue.IsFull() {
		c.state.queue.PopFront()
		c.counters.evicted.Add(1)
		evicted = true
	}
	if !c.tryPublish(message) {
		panic(`pubsub: publish immediate: queue full after eviction`)
	}
	return
}

// removeSubscriber must be called while holding mu. It releases every
// queued message not yet received by a subscriber with the given next id.
func (c *Channel[T]) removeSubscriber(nextMessageID uint64) {
	s := &c.state
	s.subscriberCount--
	startID := s.nextMessageID - uint64(s.queue.Len())
	for offset, entry := range s.queue.All() {
		if startID+uint64(offset) >= nextMessageID {
			entry.pending--
		}
	}
	if c.popDrained() != 0 {
		c.publisherWakers.Wake()
	}
}

func (c *Channel[T]) removePublisher() {
	c.state.publisherCount--
}

package pubsub

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"

	"github.com/joeycumines/go-coopsync/rawmutex"
)

type (
	// Option configures a [Channel], see [New].
	Option interface {
		applyChannel(*channelOptions) error
	}

	channelOptions struct {
		mutex          func() rawmutex.Mutex
		clone          any
		logger         *logiface.Logger[logiface.Event]
		lagLogRates    map[time.Duration]int
		maxSubscribers int
		maxPublishers  int
	}

	channelOptionImpl struct {
		applyChannelFunc func(*channelOptions) error
	}
)

// default rate limits for lag warnings, per subscriber
var defaultLagLogRates = map[time.Duration]int{
	time.Second: 1,
	time.Minute: 10,
}

func (o *channelOptionImpl) applyChannel(opts *channelOptions) error {
	return o.applyChannelFunc(opts)
}

// WithMutex configures the factory used to create the mutex guarding the
// channel state, including its wait lists. It is called once per channel,
// and may return a mutex shared with other channels, as long as it is never
// held while calling channel methods. Defaults to [rawmutex.NewStd].
// Use a factory returning [rawmutex.Noop] only if the channel and all of its
// handles are confined to a single goroutine.
func WithMutex(factory func() rawmutex.Mutex) Option {
	return &channelOptionImpl{func(opts *channelOptions) error {
		if factory == nil {
			return errors.New(`pubsub: nil mutex factory`)
		}
		opts.mutex = factory
		return nil
	}}
}

// WithMaxSubscribers limits the number of open subscribers. Zero (the
// default) means no limit.
func WithMaxSubscribers(n int) Option {
	return &channelOptionImpl{func(opts *channelOptions) error {
		if n < 0 {
			return fmt.Errorf(`pubsub: invalid max subscribers: %d`, n)
		}
		opts.maxSubscribers = n
		return nil
	}}
}

// WithMaxPublishers limits the number of open publishers. Zero (the
// default) means no limit.
func WithMaxPublishers(n int) Option {
	return &channelOptionImpl{func(opts *channelOptions) error {
		if n < 0 {
			return fmt.Errorf(`pubsub: invalid max publishers: %d`, n)
		}
		opts.maxPublishers = n
		return nil
	}}
}

// WithClone configures how messages are copied, for every subscriber but
// the last to receive a given message, which receives the original value.
// By default, messages implementing a Clone() T method are copied using
// it, and any others are copied by assignment.
//
// The type parameter must match that of the channel, or [New] will fail.
func WithClone[T any](clone func(T) T) Option {
	return &channelOptionImpl{func(opts *channelOptions) error {
		if clone == nil {
			return errors.New(`pubsub: nil clone function`)
		}
		opts.clone = clone
		return nil
	}}
}

// WithLogger configures structured logging. A nil logger (the default)
// disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &channelOptionImpl{func(opts *channelOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithLagLogRates configures the rate limits applied to warnings logged
// when a subscriber lags, per subscriber, as per [catrate.NewLimiter].
// A nil map disables rate limiting. It has no effect without a logger.
func WithLagLogRates(rates map[time.Duration]int) Option {
	return &channelOptionImpl{func(opts *channelOptions) error {
		opts.lagLogRates = rates
		return nil
	}}
}

func resolveChannelOptions(opts []Option) (*channelOptions, error) {
	cfg := &channelOptions{
		mutex:       rawmutex.NewStd,
		lagLogRates: defaultLagLogRates,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyChannel(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// resolveClone picks the copy function for messages of type T.
func resolveClone[T any](clone any) (func(T) T, error) {
	if clone != nil {
		f, ok := clone.(func(T) T)
		if !ok {
			var zero T
			return nil, fmt.Errorf(`pubsub: clone function %T does not match message type %T`, clone, zero)
		}
		return f, nil
	}
	return defaultClone[T], nil
}

type cloner[T any] interface {
	Clone() T
}

func defaultClone[T any](message T) T {
	if c, ok := any(message).(cloner[T]); ok {
		return c.Clone()
	}
	return message
}

// newLagLimiter returns nil if rates is empty.
func newLagLimiter(rates map[time.Duration]int) (limiter *catrate.Limiter, err error) {
	if len(rates) == 0 {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf(`pubsub: invalid lag log rates: %v`, r)
		}
	}()
	return catrate.NewLimiter(rates), nil
}

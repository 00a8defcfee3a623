package pubsub

import (
	"context"
	"time"
)

// BatchConfig models optional configuration for [Subscriber.Batch].
type BatchConfig struct {
	// MaxSize is the absolute maximum number of results to receive. Setting
	// this to a value < 0 will disable the maximum size constraint.
	//
	// Defaults to 16, if 0.
	MaxSize int

	// MinSize is the (target) minimum number of results to receive. If
	// PartialTimeout is configured, the effective minimum size will be 1, if
	// the PartialTimeout is reached.
	//
	// Setting this to a value < 0 will cause the PartialTimeout to start from
	// the call to Batch, and will allow returning without receiving any
	// results. In this scenario, PartialTimeout will apply to the first
	// result.
	//
	// Defaults to 4, if 0.
	MinSize int

	// PartialTimeout is the maximum time to wait for a partial batch,
	// defined as a number of received results less than the MinSize.
	// After/if this timeout is reached, the effective minimum size will be
	// reduced, see MinSize for details.
	//
	// Defaults to 50ms, if 0.
	PartialTimeout time.Duration
}

// Batch performs a blocking receive, passing as many results as possible,
// given the constraints, to handler, which may stop the batch by returning
// an error, which will be returned. Lag notifications count towards the
// batch size. If ctx cancels, the error will be returned. The cfg
// parameter is optional, and may be nil, in which case the documented
// defaults will be used.
//
// Providing a nil ctx or handler will cause a panic.
func (x *Subscriber[T]) Batch(ctx context.Context, cfg *BatchConfig, handler func(result WaitResult[T]) error) error {
	if ctx == nil {
		panic(`pubsub: nil context`)
	}
	if handler == nil {
		panic(`pubsub: nil handler`)
	}
	x.check()

	// avoid receive if canceled
	if err := ctx.Err(); err != nil {
		return err
	}

	maxSize := 16
	minSize := 4
	partialTimeout := 50 * time.Millisecond
	if cfg != nil {
		if cfg.MaxSize != 0 {
			maxSize = cfg.MaxSize
		}
		if cfg.MinSize != 0 {
			minSize = cfg.MinSize
		}
		if cfg.PartialTimeout != 0 {
			partialTimeout = cfg.PartialTimeout
		}
	}

	defer x.ch.deregister(x.reg)

	var partialTimeoutCh <-chan time.Time
	if partialTimeout > 0 && minSize < 0 {
		// no minimum size, the timeout starts immediately
		timer := time.NewTimer(partialTimeout)
		defer timer.Stop()
		partialTimeoutCh = timer.C
	}

	var size int

	// receive the minimum number of results (or first result) OR partial timeout OR context cancel
MinSizeLoop:
	for (maxSize < 0 || size < maxSize) && (size < minSize || (size == 0 && partialTimeoutCh != nil)) {
		result, ok := x.poll(true)
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()

			case <-partialTimeoutCh:
				if err := ctx.Err(); err != nil {
					return err
				}
				break MinSizeLoop

			case <-x.signal.C():
			}
			continue
		}

		size++

		if size == 1 && partialTimeout > 0 && partialTimeoutCh == nil {
			// first result received, start the partial timeout
			timer := time.NewTimer(partialTimeout)
			//goland:noinspection GoDeferInLoop
			defer timer.Stop()
			partialTimeoutCh = timer.C
		}

		if err := handler(result); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	// receive what additional results we can, up to the maximum size OR context cancel
	for maxSize < 0 || size < maxSize {
		result, ok := x.poll(false)
		if !ok {
			break
		}

		size++

		if err := handler(result); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}

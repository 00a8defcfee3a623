package pubsub

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriber_Batch_panics(t *testing.T) {
	c := mustNew[int](t, 1)
	sub := mustSubscriber(t, c)
	handler := func(WaitResult[int]) error { return nil }
	//lint:ignore SA1012 testing nil context
	assert.PanicsWithValue(t, `pubsub: nil context`, func() { _ = sub.Batch(nil, nil, handler) })
	assert.PanicsWithValue(t, `pubsub: nil handler`, func() { _ = sub.Batch(context.Background(), nil, nil) })
}

func TestSubscriber_Batch(t *testing.T) {
	for _, tc := range [...]struct {
		name      string
		cfg       *BatchConfig
		published []int
		ctx       func() (context.Context, context.CancelFunc)
		want      []int
		wantErr   error
	}{
		{
			name:      `maxSize limits`,
			cfg:       &BatchConfig{MaxSize: 3, MinSize: 1},
			published: []int{1, 2, 3, 4, 5},
			want:      []int{1, 2, 3},
		},
		{
			name:      `defaults drain available`,
			published: []int{1, 2, 3, 4, 5},
			want:      []int{1, 2, 3, 4, 5},
		},
		{
			name:      `partial timeout after first`,
			cfg:       &BatchConfig{MinSize: 10, PartialTimeout: time.Millisecond * 20},
			published: []int{1, 2},
			want:      []int{1, 2},
		},
		{
			name: `no minimum allows empty`,
			cfg:  &BatchConfig{MinSize: -1, PartialTimeout: time.Millisecond * 20},
		},
		{
			name:      `unbounded max`,
			cfg:       &BatchConfig{MaxSize: -1, MinSize: 1},
			published: []int{1, 2, 3, 4, 5, 6, 7, 8},
			want:      []int{1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			name: `context canceled`,
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			published: []int{1},
			wantErr:   context.Canceled,
		},
		{
			name: `context deadline while waiting`,
			cfg:  &BatchConfig{MinSize: 2, PartialTimeout: -1},
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), time.Millisecond*20)
			},
			published: []int{1},
			want:      []int{1},
			wantErr:   context.DeadlineExceeded,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			defer checkNumGoroutines(time.Second * 3)(t) // should always clean up

			c := mustNew[int](t, 16)
			sub := mustSubscriber(t, c)
			pub := mustPublisher(t, c)
			for _, v := range tc.published {
				require.NoError(t, pub.TryPublish(v))
			}

			ctx, cancel := context.Background(), context.CancelFunc(func() {})
			if tc.ctx != nil {
				ctx, cancel = tc.ctx()
			}
			defer cancel()

			var got []int
			err := sub.Batch(ctx, tc.cfg, func(result WaitResult[int]) error {
				got = append(got, result.Message())
				return nil
			})
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, 0, c.Stats().SubscriberWaiters)
		})
	}
}

func TestSubscriber_Batch_waitsForMinimum(t *testing.T) {
	defer checkNumGoroutines(time.Second * 3)(t) // should always clean up

	c := mustNew[int](t, 4)
	sub := mustSubscriber(t, c)
	pub := mustPublisher(t, c)

	done := make(chan []int, 1)
	go func() {
		var got []int
		err := sub.Batch(context.Background(), &BatchConfig{MinSize: 3, MaxSize: 10, PartialTimeout: time.Second * 5}, func(result WaitResult[int]) error {
			got = append(got, result.Message())
			return nil
		})
		if err != nil {
			panic(err)
		}
		done <- got
	}()

	for v := 1; v <= 3; v++ {
		require.NoError(t, pub.Publish(context.Background(), v))
		time.Sleep(time.Millisecond * 5)
	}

	select {
	case got := <-done:
		assert.Equal(t, []int{1, 2, 3}, got)
	case <-time.After(time.Second * 3):
		t.Fatal(`expected batch to complete`)
	}
}

func TestSubscriber_Batch_handlerError(t *testing.T) {
	c := mustNew[int](t, 4)
	sub := mustSubscriber(t, c)
	pub := mustPublisher(t, c)
	for v := 1; v <= 4; v++ {
		require.NoError(t, pub.TryPublish(v))
	}
	errStop := errors.New(`stop`)
	var got []int
	err := sub.Batch(context.Background(), &BatchConfig{MinSize: 1}, func(result WaitResult[int]) error {
		got = append(got, result.Message())
		if len(got) == 2 {
			return errStop
		}
		return nil
	})
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, uint64(2), sub.Available())
}

func TestSubscriber_Batch_lag(t *testing.T) {
	c := mustNew[int](t, 2)
	sub := mustSubscriber(t, c)
	pub := mustPublisher(t, c)
	for v := 1; v <= 4; v++ {
		pub.PublishImmediate(v)
	}
	var got []WaitResult[int]
	require.NoError(t, sub.Batch(context.Background(), &BatchConfig{MinSize: 1}, func(result WaitResult[int]) error {
		got = append(got, result)
		return nil
	}))
	assert.Equal(t, []WaitResult[int]{Lagged[int](2), Message(3), Message(4)}, got)
}

package pubsub

import (
	"runtime"
	"testing"
	"time"
)

// checkNumGoroutines is used like `defer checkNumGoroutines(timeout)(t)`,
// and fails the test if the number of goroutines has not returned to its
// starting value within timeout.
func checkNumGoroutines(timeout time.Duration) func(t *testing.T) {
	start := runtime.NumGoroutine()
	return func(t *testing.T) {
		t.Helper()
		deadline := time.Now().Add(timeout)
		for {
			n := runtime.NumGoroutine()
			if n <= start {
				return
			}
			if time.Now().After(deadline) {
				t.Errorf(`expected at most %d goroutines, got %d`, start, n)
				return
			}
			time.Sleep(time.Millisecond * 10)
		}
	}
}

func mustNew[T any](t *testing.T, capacity int, opts ...Option) *Channel[T] {
	t.Helper()
	c, err := New[T](capacity, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func mustSubscriber[T any](t *testing.T, c *Channel[T]) *Subscriber[T] {
	t.Helper()
	x, err := c.Subscriber()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = x.Close() })
	return x
}

func mustPublisher[T any](t *testing.T, c *Channel[T]) *Publisher[T] {
	t.Helper()
	x, err := c.Publisher()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = x.Close() })
	return x
}

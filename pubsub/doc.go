// Package pubsub implements a bounded broadcast channel, with any number of
// publishers and subscribers.
//
// Messages are queued in a fixed-capacity ring buffer, alongside a count of
// subscribers yet to receive them. Each subscriber tracks only the id of
// the next message it will receive. A subscriber that falls behind by more
// than the capacity (only possible via [Publisher.PublishImmediate]) is
// told how many messages it missed, via a [Lagged] result. The last
// subscriber to receive the oldest message receives the original value,
// while the rest receive copies.
//
// Waiting operations ([Publisher.Publish], [Subscriber.NextMessage], and
// [Subscriber.Batch]) register the caller with one of the channel's wait
// lists, and are abandoned cleanly on context cancellation.
package pubsub

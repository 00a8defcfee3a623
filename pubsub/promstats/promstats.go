// Package promstats exposes [pubsub.Stats] as Prometheus metrics.
package promstats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joeycumines/go-coopsync/pubsub"
)

const namespace = `coopsync_pubsub`

type (
	// Source provides stats, e.g. a *pubsub.Channel[T].
	Source interface {
		Stats() pubsub.Stats
	}

	// Collector is a prometheus.Collector reporting the stats of a single
	// channel. Each scrape takes one snapshot.
	Collector struct {
		source  Source
		gauges  []metric
		counter []metric
	}

	metric struct {
		desc  *prometheus.Desc
		value func(s *pubsub.Stats) float64
	}
)

var (
	// compile time assertions

	_ prometheus.Collector = (*Collector)(nil)
)

// NewCollector returns a collector for source. The labels are applied to
// every metric, and should identify the channel, if more than one is
// registered.
func NewCollector(source Source, labels prometheus.Labels) *Collector {
	if source == nil {
		panic(`promstats: nil source`)
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, ``, name), help, nil, labels)
	}
	return &Collector{
		source: source,
		gauges: []metric{
			{desc(`capacity`, `Fixed queue capacity.`), func(s *pubsub.Stats) float64 { return float64(s.Capacity) }},
			{desc(`queue_length`, `Number of queued messages.`), func(s *pubsub.Stats) float64 { return float64(s.Len) }},
			{desc(`subscribers`, `Number of open subscribers.`), func(s *pubsub.Stats) float64 { return float64(s.Subscribers) }},
			{desc(`publishers`, `Number of open publishers.`), func(s *pubsub.Stats) float64 { return float64(s.Publishers) }},
			{desc(`subscriber_waiters`, `Number of subscribers waiting for a message.`), func(s *pubsub.Stats) float64 { return float64(s.SubscriberWaiters) }},
			{desc(`publisher_waiters`, `Number of publishers waiting for space.`), func(s *pubsub.Stats) float64 { return float64(s.PublisherWaiters) }},
		},
		counter: []metric{
			{desc(`messages_published_total`, `Total messages queued.`), func(s *pubsub.Stats) float64 { return float64(s.Published) }},
			{desc(`messages_dropped_total`, `Total messages published with no subscribers.`), func(s *pubsub.Stats) float64 { return float64(s.Dropped) }},
			{desc(`messages_evicted_total`, `Total queued messages evicted to make space.`), func(s *pubsub.Stats) float64 { return float64(s.Evicted) }},
			{desc(`messages_lagged_total`, `Total messages missed by lagging subscribers.`), func(s *pubsub.Stats) float64 { return float64(s.Lagged) }},
			{desc(`messages_delivered_total`, `Total messages received by subscribers.`), func(s *pubsub.Stats) float64 { return float64(s.Delivered) }},
		},
	}
}

// Describe implements prometheus.Collector.
func (x *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range x.gauges {
		ch <- m.desc
	}
	for _, m := range x.counter {
		ch <- m.desc
	}
}

// Collect implements prometheus.Collector.
func (x *Collector) Collect(ch chan<- prometheus.Metric) {
	s := x.source.Stats()
	for _, m := range x.gauges {
		ch <- prometheus.MustNewConstMetric(m.desc, prometheus.GaugeValue, m.value(&s))
	}
	for _, m := range x.counter {
		ch <- prometheus.MustNewConstMetric(m.desc, prometheus.CounterValue, m.value(&s))
	}
}

// Package metrics counts store activity with prometheus collectors.
package metrics

import (
	"fmt"

	"github.com/delaneyj/vbind/reactive"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vbind"

// Collector implements reactive.Hooks.
type Collector struct {
	writes        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	fanout        prometheus.Histogram
	updates       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writes_total",
			Help:      "Field writes that changed a value.",
		}, []string{"path"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Dependency notifications, one per changing write.",
		}, []string{"path"}),
		fanout: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "notification_fanout",
			Help:      "Watchers reached by one notification.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}),
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Watcher updates by binding kind.",
		}, []string{"kind"}),
	}

	for _, col := range []prometheus.Collector{c.writes, c.notifications, c.fanout, c.updates} {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return c, nil
}

func (c *Collector) Write(path string) {
	c.writes.WithLabelValues(path).Inc()
}

func (c *Collector) Notify(path string, watchers int) {
	c.notifications.WithLabelValues(path).Inc()
	c.fanout.Observe(float64(watchers))
}

func (c *Collector) Update(w *reactive.Watcher) {
	kind := w.Kind()
	if kind == "" {
		kind = "custom"
	}
	c.updates.WithLabelValues(kind).Inc()
}

func (c *Collector) Writes(path string) prometheus.Counter {
	return c.writes.WithLabelValues(path)
}

func (c *Collector) Notifications(path string) prometheus.Counter {
	return c.notifications.WithLabelValues(path)
}

func (c *Collector) Updates(kind string) prometheus.Counter {
	return c.updates.WithLabelValues(kind)
}

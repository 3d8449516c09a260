// Package metrics exposes Prometheus counters for cart and notification activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// Recorder receives storefront activity. A nil *Metrics is a valid no-op Recorder.
type Recorder interface {
	ItemAdded()
	ItemRejected()
	ItemRemoved()
	RemoveIgnored()
	Checkout(outcome string)
	Notification(kind string)
	SessionOpened()
	SessionClosed()
}

type Metrics struct {
	itemsAdded     prometheus.Counter
	itemsRejected  prometheus.Counter
	itemsRemoved   prometheus.Counter
	removesIgnored prometheus.Counter
	checkouts      *prometheus.CounterVec
	notifications  *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// New registers the storefront collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		itemsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_added_total",
			Help:      "Add-to-cart actions accepted.",
		}),
		itemsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_rejected_total",
			Help:      "Add-to-cart actions rejected because of an invalid price.",
		}),
		itemsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_items_removed_total",
			Help:      "Line items removed from carts.",
		}),
		removesIgnored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_removes_ignored_total",
			Help:      "Remove actions ignored because the target did not exist.",
		}),
		checkouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications shown by kind.",
		}, []string{"kind"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Cart sessions currently held in memory.",
		}),
	}
}

func (m *Metrics) ItemAdded() {
	if m != nil {
		m.itemsAdded.Inc()
	}
}

func (m *Metrics) ItemRejected() {
	if m != nil {
		m.itemsRejected.Inc()
	}
}

func (m *Metrics) ItemRemoved() {
	if m != nil {
		m.itemsRemoved.Inc()
	}
}

func (m *Metrics) RemoveIgnored() {
	if m != nil {
		m.removesIgnored.Inc()
	}
}

func (m *Metrics) Checkout(outcome string) {
	if m != nil {
		m.checkouts.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Notification(kind string) {
	if m != nil {
		m.notifications.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) SessionOpened() {
	if m != nil {
		m.activeSessions.Inc()
	}
}

func (m *Metrics) SessionClosed() {
	if m != nil {
		m.activeSessions.Dec()
	}
}

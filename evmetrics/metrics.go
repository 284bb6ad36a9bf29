// Package evmetrics contains Prometheus instrumentation for an event bus.
//
// Create a [*Metrics] with [New] and set it on the bus configuration.
// A nil *Metrics is valid and records nothing.
package evmetrics

import (
	"reflect"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "evbus"

// Metrics holds the collectors for one bus.
type Metrics struct {
	posts         *prometheus.CounterVec
	subscriptions *prometheus.GaugeVec

	// Distinct types may render to the same label
	// (for example, function-local types with the same name),
	// so the gauge reports the sum over all types sharing a label.
	mu      sync.Mutex
	byLabel map[string]map[reflect.Type]int
}

// New creates the bus collectors and registers them with reg.
// If reg is nil, [prometheus.DefaultRegisterer] is used.
//
// New panics if the collectors are already registered with reg,
// in the same way as [prometheus.MustRegister].
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		posts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "posts_total",
				Help:      "Total number of posted events, by whether a subscriber for the exact type existed",
			},
			[]string{"had_subscribers"},
		),

		subscriptions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "subscriptions",
				Help:      "Live type-filtered subscriptions, by event type",
			},
			[]string{"event_type"},
		),

		byLabel: make(map[string]map[reflect.Type]int),
	}

	reg.MustRegister(m.posts, m.subscriptions)

	return m
}

// ObservePost counts one post.
func (m *Metrics) ObservePost(hadSubscribers bool) {
	if m == nil {
		return
	}

	m.posts.WithLabelValues(strconv.FormatBool(hadSubscribers)).Inc()
}

// SetSubscriptions records the live subscription count for t.
//
// The series for t's label is the sum of the counts of every type
// sharing that label; it is removed once that sum reaches zero,
// mirroring the registry which drops types with no subscribers.
func (m *Metrics) SetSubscriptions(t reflect.Type, n int) {
	if m == nil {
		return
	}

	label := TypeLabel(t)

	m.mu.Lock()
	defer m.mu.Unlock()

	counts := m.byLabel[label]
	if n <= 0 {
		delete(counts, t)
	} else {
		if counts == nil {
			counts = make(map[reflect.Type]int, 1)
			m.byLabel[label] = counts
		}
		counts[t] = n
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	if total == 0 {
		delete(m.byLabel, label)
		m.subscriptions.DeleteLabelValues(label)
		return
	}
	m.subscriptions.WithLabelValues(label).Set(float64(total))
}

// TypeLabel returns the event_type label value for t.
// Named types are qualified by their full package path,
// so that types with the same name in different packages get distinct series;
// other types use [reflect.Type.String].
func TypeLabel(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// Package evbustest contains utilities for testing code
// that publishes to or subscribes from an [evbus.Bus].
package evbustest

import (
	"slices"
	"sync"

	"github.com/gordian-engine/evbus/evstream"
)

// Recorder subscribes to a stream and keeps every delivered value.
type Recorder[T any] struct {
	sub *evstream.Subscription

	mu   sync.Mutex
	vals []T
}

// Record subscribes to s and returns a Recorder collecting its values.
// Call [*Recorder.Unsubscribe] to release the subscription,
// typically through t.Cleanup or defer.
func Record[T any](s evstream.Stream[T]) *Recorder[T] {
	r := new(Recorder[T])
	r.sub = s.Subscribe(func(v T) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.vals = append(r.vals, v)
	})
	return r
}

// Values returns a copy of the values recorded so far, in delivery order.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.vals)
}

// Len returns the number of values recorded so far.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.vals)
}

// Unsubscribe releases the underlying subscription.
func (r *Recorder[T]) Unsubscribe() {
	r.sub.Unsubscribe()
}

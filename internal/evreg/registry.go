// Package evreg contains the reference-counted subscriber registry
// backing delivery confirmation on the event bus.
package evreg

import (
	"maps"
	"reflect"
	"sync"
)

// Registry counts live subscriptions per exact event type.
//
// A type with no live subscriptions has no entry;
// counts stored in the map are always positive.
type Registry struct {
	mu     sync.Mutex
	counts map[reflect.Type]int

	onChange func(t reflect.Type, n int)
}

// New returns an empty Registry.
//
// If onChange is not nil, it is called with the new count
// after every Increment and every effective Decrement.
// It is called while the registry lock is held,
// so calls are ordered consistently with the counts;
// it must be fast and must not call back into the Registry.
func New(onChange func(t reflect.Type, n int)) *Registry {
	return &Registry{
		counts: make(map[reflect.Type]int, 8), // Arbitrary size.

		onChange: onChange,
	}
}

// Increment records one more live subscription for t
// and returns the new count.
func (r *Registry) Increment(t reflect.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.counts[t] + 1
	r.counts[t] = n
	r.notify(t, n)
	return n
}

// Decrement records one fewer live subscription for t
// and returns the new count.
//
// Decrementing a type with no entry is a no-op that returns zero.
func (r *Registry) Decrement(t reflect.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.counts[t]
	if !ok {
		return 0
	}

	n--
	if n <= 0 {
		delete(r.counts, t)
		n = 0
	} else {
		r.counts[t] = n
	}

	r.notify(t, n)
	return n
}

// HasAny reports whether there is at least one live subscription for t.
func (r *Registry) HasAny(t reflect.Type) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counts[t] > 0
}

// Count returns the number of live subscriptions for t.
func (r *Registry) Count(t reflect.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counts[t]
}

// Len returns the number of distinct types with live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.counts)
}

// Snapshot returns a copy of the current counts.
func (r *Registry) Snapshot() map[reflect.Type]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return maps.Clone(r.counts)
}

func (r *Registry) notify(t reflect.Type, n int) {
	if r.onChange != nil {
		r.onChange(t, n)
	}
}

package evstream

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// Subject is a multicast source.
// Every value passed to [*Subject.Emit] is delivered
// to every subscription attached at the time of the call.
//
// Emit may be called concurrently from many goroutines.
// All attached subscriptions observe emitted values in the same relative order,
// and a single subscription never receives two values concurrently.
//
// The zero value is ready to use.
type Subject[T any] struct {
	mu sync.Mutex

	// Indices of slots holding a live observer.
	// Freed slots are reused by later subscriptions
	// so that a churn of short-lived subscriptions
	// does not grow slots without bound.
	occupied bitset.BitSet
	slots    []*observer[T]
}

// NewSubject returns an initialized subject.
func NewSubject[T any]() *Subject[T] {
	return new(Subject[T])
}

// Stream returns an unfiltered stream of the values emitted to s.
func (s *Subject[T]) Stream() Stream[T] {
	return Stream[T]{attach: s.attach}
}

// Len reports the number of currently attached subscriptions.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int(s.occupied.Count())
}

// Emit delivers v to every attached subscription,
// on the calling goroutine.
//
// If another goroutine is currently delivering to a subscription
// (including the case where Emit is called from inside that subscription's callback),
// v is queued for that subscription and the other goroutine delivers it
// after the values queued ahead of it;
// Emit may return before that delivery happens.
// Otherwise, Emit returns only after the subscription's callback has returned.
//
// If a callback panics, the remaining subscriptions still receive v
// before the panic continues up to the caller.
func (s *Subject[T]) Emit(v T) {
	s.EmitFunc(v, nil)
}

// EmitFunc is like [*Subject.Emit],
// but first calls check while holding the subject lock
// and returns its result.
// The set of subscriptions that receive v is captured
// in the same critical section as the call to check,
// so check observes the same instant as the delivery.
//
// check must be fast and must not call back into s.
// A nil check is allowed and reports false.
func (s *Subject[T]) EmitFunc(v T, check func() bool) bool {
	s.mu.Lock()
	var res bool
	if check != nil {
		res = check()
	}

	targets := make([]*observer[T], 0, s.occupied.Count())
	for i, ok := s.occupied.NextSet(0); ok; i, ok = s.occupied.NextSet(i + 1) {
		o := s.slots[i]

		// Enqueueing while holding the subject lock
		// gives every observer the same global order.
		o.enqueue(v)
		targets = append(targets, o)
	}
	s.mu.Unlock()

	drainAll(targets)

	return res
}

// drainAll drains every target.
// A panicking callback does not prevent the later targets from being drained;
// the panic is re-raised once they have been.
func drainAll[T any](targets []*observer[T]) {
	for i, o := range targets {
		func() {
			defer func() {
				if p := recover(); p != nil {
					drainAll(targets[i+1:])
					panic(p)
				}
			}()

			o.drain()
		}()
	}
}

func (s *Subject[T]) attach(sink func(T)) func() {
	o := &observer[T]{onNext: sink}

	s.mu.Lock()
	idx, ok := s.occupied.NextClear(0)
	if !ok || idx >= uint(len(s.slots)) {
		idx = uint(len(s.slots))
		s.slots = append(s.slots, nil)
	}
	s.slots[idx] = o
	s.occupied.Set(idx)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.occupied.Clear(idx)
		s.slots[idx] = nil
		s.mu.Unlock()

		o.mu.Lock()
		o.detached = true
		o.pending = nil
		o.mu.Unlock()
	}
}

// observer is the per-subscription delivery queue.
type observer[T any] struct {
	onNext func(T)

	mu       sync.Mutex
	pending  []T
	draining bool
	detached bool
}

func (o *observer[T]) enqueue(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.detached {
		return
	}
	o.pending = append(o.pending, v)
}

// drain delivers pending values until the queue is empty,
// unless another goroutine is already draining o.
func (o *observer[T]) drain() {
	o.mu.Lock()
	if o.draining {
		o.mu.Unlock()
		return
	}
	o.draining = true

	for {
		if o.detached || len(o.pending) == 0 {
			o.draining = false
			o.pending = nil
			o.mu.Unlock()
			return
		}

		v := o.pending[0]
		var zero T
		o.pending[0] = zero
		o.pending = o.pending[1:]
		o.mu.Unlock()

		o.deliver(v)

		o.mu.Lock()
	}
}

// deliver calls the callback with o.mu unlocked.
// If the callback panics, the draining flag is released
// so later emits are still delivered to o.
func (o *observer[T]) deliver(v T) {
	ok := false
	defer func() {
		if !ok {
			o.mu.Lock()
			o.draining = false
			o.mu.Unlock()
		}
	}()

	o.onNext(v)
	ok = true
}

package evstream

// Stream is a lazy, restartable sequence of values.
//
// The zero value is not usable;
// streams originate from [*Subject.Stream]
// and are then transformed with the operator methods and [Map].
type Stream[T any] struct {
	// attach connects sink to the source of the stream
	// and returns the function that disconnects it.
	attach func(sink func(T)) (detach func())
}

// Subscribe attaches onNext to s.
// onNext is called once for every value that reaches this subscription,
// never concurrently with itself.
//
// A nil onNext is allowed, which is useful when only the side effects
// of the subscription lifecycle matter.
func (s Stream[T]) Subscribe(onNext func(T)) *Subscription {
	if onNext == nil {
		onNext = func(T) {}
	}

	sub := &Subscription{
		done: make(chan struct{}),
	}
	sub.detach = s.attach(onNext)
	return sub
}

// Filter returns a stream that only passes values for which keep returns true.
func (s Stream[T]) Filter(keep func(T) bool) Stream[T] {
	return Stream[T]{
		attach: func(sink func(T)) func() {
			return s.attach(func(v T) {
				if keep(v) {
					sink(v)
				}
			})
		},
	}
}

// DoOnSubscribe returns a stream that calls fn synchronously
// each time a subscription is made,
// before the subscription is attached upstream.
func (s Stream[T]) DoOnSubscribe(fn func()) Stream[T] {
	return Stream[T]{
		attach: func(sink func(T)) func() {
			fn()
			return s.attach(sink)
		},
	}
}

// DoOnUnsubscribe returns a stream that calls fn synchronously
// each time a subscription is released,
// after the subscription has been detached upstream.
//
// Because [*Subscription.Unsubscribe] is idempotent,
// fn is called at most once per subscription.
func (s Stream[T]) DoOnUnsubscribe(fn func()) Stream[T] {
	return Stream[T]{
		attach: func(sink func(T)) func() {
			detach := s.attach(sink)
			return func() {
				detach()
				fn()
			}
		},
	}
}

// Map returns a stream that applies fn to every value of s.
//
// Map is a function rather than a method
// because Go methods cannot introduce type parameters.
func Map[T, U any](s Stream[T], fn func(T) U) Stream[U] {
	return Stream[U]{
		attach: func(sink func(U)) func() {
			return s.attach(func(v T) {
				sink(fn(v))
			})
		},
	}
}

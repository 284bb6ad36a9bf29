// Package evstream contains the in-application streaming primitives
// that the event bus is built from.
//
// A [*Subject] is a multicast point: every value passed to [*Subject.Emit]
// is delivered synchronously to every currently attached subscriber.
//
// A [Stream] is a lazy description of a sequence of values.
// Operators such as [Stream.Filter], [Map], [Stream.DoOnSubscribe],
// and [Stream.DoOnUnsubscribe] compose new streams without attaching anything;
// only [Stream.Subscribe] attaches a callback,
// and each call produces an independent [*Subscription].
//
// Deliveries to a single subscription never overlap,
// and each subscription observes values in the order they were emitted.
package evstream

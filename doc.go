// Package evbus contains an in-process publish/subscribe event bus.
//
// Any value can be posted with [*Bus.Post].
// Subscribers use [Register] to receive only values whose dynamic type
// is exactly the registered type:
// no assignability or interface matching is performed,
// so a subscriber for float64 never receives a value of a named type
// whose underlying type is float64.
// [*Bus.ObserveAll] receives every posted value.
//
// Post reports whether at least one live subscription
// for the exact type of the event existed at the time of posting.
// That answer is backed by a reference-counted registry
// which is incremented when a registered stream is subscribed
// and decremented when the subscription is released.
//
// Delivery is synchronous on the posting goroutine.
// See the [evstream] package for the ordering guarantees of each subscription.
package evbus

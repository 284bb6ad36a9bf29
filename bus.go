package evbus

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/gordian-engine/evbus/evmetrics"
	"github.com/gordian-engine/evbus/evstream"
	"github.com/gordian-engine/evbus/internal/evreg"
	"github.com/gordian-engine/evbus/internal/evtrace"
)

// Bus is an in-process event bus.
// Create one with [NewBus].
// All methods are safe for concurrent use.
type Bus struct {
	log *slog.Logger

	tracer  evtrace.Tracer
	metrics *evmetrics.Metrics

	reg  *evreg.Registry
	subj *evstream.Subject[any]
}

// BusConfig is the configuration for a [Bus].
// The zero value is valid.
type BusConfig struct {
	// Used to trace calls to Post.
	// If nil, a no-op provider is used.
	TracerProvider evtrace.TracerProvider

	// Optional Prometheus instrumentation.
	Metrics *evmetrics.Metrics
}

// NewBus returns a new Bus.
// It panics if log is nil.
func NewBus(log *slog.Logger, cfg BusConfig) *Bus {
	if log == nil {
		panic("BUG: NewBus: log may not be nil")
	}

	tp := cfg.TracerProvider
	if tp == nil {
		tp = evtrace.NopTracerProvider()
	}

	var onRegistryChange func(reflect.Type, int)
	if cfg.Metrics != nil {
		onRegistryChange = cfg.Metrics.SetSubscriptions
	}

	return &Bus{
		log: log,

		tracer:  tp.Tracer(evtrace.TracerName),
		metrics: cfg.Metrics,

		reg:  evreg.New(onRegistryChange),
		subj: evstream.NewSubject[any](),
	}
}

// Post delivers event to every attached subscription that accepts it,
// and reports whether there was a live subscription
// for the exact dynamic type of event.
//
// The returned value reflects the subscription registry at the time of posting,
// not whether any callback succeeded.
// The registry is read at the same instant the set of receiving subscriptions is fixed,
// so Post never returns false for an event it delivers to a subscriber of its type.
//
// Post usually returns after every receiving callback has returned.
// The exception is a subscription whose callback is already running
// on another goroutine (or further up the current goroutine's stack,
// when Post is called from a callback):
// the event is queued for it and delivered by that goroutine,
// possibly after Post returns.
//
// Post does not recover panics from subscriber callbacks.
// Every receiving subscription still gets the event
// before the panic propagates to the caller.
//
// Post panics with [ErrNilEvent] if event is nil.
// A typed nil pointer is a valid event of its pointer type.
func (b *Bus) Post(event any) bool {
	return b.PostContext(context.Background(), event)
}

// PostContext is like [*Bus.Post],
// using ctx as the parent of the post's trace span.
// Delivery is not cancelable through ctx.
func (b *Bus) PostContext(ctx context.Context, event any) bool {
	if event == nil {
		panic(ErrNilEvent)
	}

	t := reflect.TypeOf(event)

	_, span := b.tracer.Start(
		ctx,
		"post event",
		evtrace.WithAttributes(evtrace.EventTypeAttr(t)),
	)
	defer span.End()

	var had bool
	defer func() {
		// Deferred so a panicking subscriber still leaves a record of the post.
		span.SetAttributes(evtrace.HadSubscribersAttr(had))
		b.metrics.ObservePost(had)
	}()

	// The registry check runs inside the subject's critical section,
	// so it sees exactly the subscriptions that receive the event.
	// A subscription is counted before it attaches and uncounted after it detaches,
	// so every subscription in the delivery set is counted.
	had = b.subj.EmitFunc(event, func() bool {
		return b.reg.HasAny(t)
	})

	return had
}

// PostFrom starts a goroutine that posts every value received on ch,
// until ctx is canceled or ch is closed.
// The returned channel is closed once the goroutine has stopped.
//
// Nil values received on ch are logged and skipped,
// since there is no caller to panic to.
func (b *Bus) PostFrom(ctx context.Context, ch <-chan any) <-chan struct{} {
	return evstream.RunChannel(ctx, ch, func(event any) {
		if event == nil {
			b.log.Warn("Skipping nil event received from channel")
			return
		}
		b.PostContext(ctx, event)
	})
}

// PostMessage posts msg as a string event.
// Subscribers interested in a particular message
// can use [*Bus.ObserveMessages].
func (b *Bus) PostMessage(msg string) bool {
	return b.Post(msg)
}

// ObserveAll returns a stream of every posted event, unfiltered.
//
// Subscriptions to this stream are not counted
// towards the result of [*Bus.Post].
func (b *Bus) ObserveAll() evstream.Stream[any] {
	return b.subj.Stream()
}

// Register returns a stream of the posted events
// whose dynamic type is exactly T.
//
// Each subscription to the returned stream counts as one live subscriber
// for T until it is released.
//
// Register panics with an [InvalidRegistrationError] if T is an interface type,
// because no dynamic type is ever an interface type.
func Register[T any](b *Bus) evstream.Stream[T] {
	t := reflect.TypeFor[T]()
	mustBeRegistrable(t)

	return evstream.Map(b.observeType(t), func(v any) T {
		return v.(T)
	})
}

// RegisterType is the dynamic counterpart of [Register],
// for callers that only have a [reflect.Type] at hand.
// Every value delivered through the stream has dynamic type t.
func (b *Bus) RegisterType(t reflect.Type) evstream.Stream[any] {
	mustBeRegistrable(t)

	return b.observeType(t)
}

// ObserveMessages returns a stream that emits an empty notification
// each time msg is posted as a string event.
//
// Subscriptions to the returned stream count as string subscribers.
func (b *Bus) ObserveMessages(msg string) evstream.Stream[struct{}] {
	return evstream.Map(
		Register[string](b).Filter(func(s string) bool { return s == msg }),
		func(string) struct{} { return struct{}{} },
	)
}

// HasSubscribers reports whether there is currently
// at least one live subscription for exactly T.
//
// This can be used to skip constructing an expensive event,
// but the answer may be stale by the time the event is posted.
func HasSubscribers[T any](b *Bus) bool {
	return b.reg.HasAny(reflect.TypeFor[T]())
}

// HasSubscribersOf is the dynamic counterpart of [HasSubscribers].
func (b *Bus) HasSubscribersOf(t reflect.Type) bool {
	return b.reg.HasAny(t)
}

// Subscriptions returns a snapshot of the live subscription count
// per registered type.
// Subscriptions from [*Bus.ObserveAll] are not included.
func (b *Bus) Subscriptions() map[reflect.Type]int {
	return b.reg.Snapshot()
}

func (b *Bus) observeType(t reflect.Type) evstream.Stream[any] {
	return b.subj.Stream().
		Filter(func(v any) bool {
			return reflect.TypeOf(v) == t
		}).
		DoOnSubscribe(func() {
			n := b.reg.Increment(t)
			b.log.Debug("Subscription attached", "type", t.String(), "count", n)
		}).
		DoOnUnsubscribe(func() {
			n := b.reg.Decrement(t)
			b.log.Debug("Subscription detached", "type", t.String(), "count", n)
		})
}

func mustBeRegistrable(t reflect.Type) {
	if t == nil || t.Kind() == reflect.Interface {
		panic(InvalidRegistrationError{Type: t})
	}
}

// Package evtrace is a thin wrapper over OpenTelemetry tracing,
// so that the rest of the module only references one package.
package evtrace

import (
	"reflect"

	otelattr "go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	otpnoop "go.opentelemetry.io/otel/trace/noop"
)

type TracerProvider = oteltrace.TracerProvider

type Tracer = oteltrace.Tracer

type KeyValueAttr = otelattr.KeyValue

// TracerName is the instrumentation name used for the bus tracer.
const TracerName = "github.com/gordian-engine/evbus"

// NopTracerProvider returns the otel no-op tracer provider.
// This is intended to use as a fallback when a nil tracer provider is given.
func NopTracerProvider() TracerProvider {
	return otpnoop.NewTracerProvider()
}

// WithAttributes is an alias to [oteltrace.WithAttributes]
// to allow consumers to only reference the evtrace package.
func WithAttributes(attrs ...KeyValueAttr) oteltrace.SpanStartEventOption {
	return oteltrace.WithAttributes(attrs...)
}

// EventTypeAttr returns an attribute naming the exact type of a posted event.
func EventTypeAttr(t reflect.Type) KeyValueAttr {
	return otelattr.Stringer("evbus.event.type", t)
}

// HadSubscribersAttr records the delivery confirmation of a post.
func HadSubscribersAttr(had bool) KeyValueAttr {
	return otelattr.Bool("evbus.had_subscribers", had)
}

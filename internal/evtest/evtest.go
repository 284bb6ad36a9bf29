// Package evtest contains helpers shared across tests in this module.
package evtest

import (
	"log/slog"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
)

// ScheduleTimeout is how long the Soon helpers wait
// before failing the test.
// It is generous so that loaded CI machines do not flake.
const ScheduleTimeout = 500 * time.Millisecond

// NewLogger returns a logger that writes through t.Log,
// so output is only shown for failing or verbose tests.
func NewLogger(t testing.TB) *slog.Logger {
	t.Helper()

	return slogt.New(t)
}

// ReceiveSoon returns the next value from ch,
// failing the test if nothing arrives within [ScheduleTimeout].
func ReceiveSoon[T any](t testing.TB, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(ScheduleTimeout):
		t.Fatalf("no value received within %s", ScheduleTimeout)
	}

	panic("unreachable")
}

// SendSoon sends v on ch,
// failing the test if the send does not complete within [ScheduleTimeout].
func SendSoon[T any](t testing.TB, ch chan<- T, v T) {
	t.Helper()

	select {
	case ch <- v:
	case <-time.After(ScheduleTimeout):
		t.Fatalf("could not send within %s", ScheduleTimeout)
	}
}

// NotSending fails the test if ch is immediately readable.
func NotSending[T any](t testing.TB, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
		t.Fatal("channel should not have been readable")
	default:
	}
}

// IsSending fails the test if ch is not immediately readable.
func IsSending[T any](t testing.TB, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
	default:
		t.Fatal("channel should have been readable")
	}
}

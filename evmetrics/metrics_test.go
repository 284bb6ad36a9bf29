package evmetrics_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/gordian-engine/evbus/evmetrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObservePost(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := evmetrics.New(reg)

	m.ObservePost(true)
	m.ObservePost(false)
	m.ObservePost(true)

	n, err := testutil.GatherAndCount(reg, "evbus_posts_total")
	require.NoError(t, err)
	require.Equal(t, 2, n) // One series per label value.
}

func TestMetrics_SetSubscriptions(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewPedanticRegistry()
	m := evmetrics.New(reg)

	intType := reflect.TypeFor[int]()
	m.SetSubscriptions(intType, 3)

	n, err := testutil.GatherAndCount(reg, "evbus_subscriptions")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Zero removes the series entirely.
	m.SetSubscriptions(intType, 0)

	n, err = testutil.GatherAndCount(reg, "evbus_subscriptions")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestMetrics_nilIsNoop(t *testing.T) {
	t.Parallel()

	var m *evmetrics.Metrics
	require.NotPanics(t, func() {
		m.ObservePost(true)
		m.SetSubscriptions(reflect.TypeFor[int](), 1)
	})
}

func TestNew_doubleRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_ = evmetrics.New(reg)

	require.Panics(t, func() {
		_ = evmetrics.New(reg)
	})
}

func TestMetrics_SetSubscriptions_typesSharingALabel(t *testing.T) {
	t.Parallel()

	// Two distinct types with identical package path and name.
	typeA := func() reflect.Type {
		type Created struct{}
		return reflect.TypeFor[Created]()
	}()
	typeB := func() reflect.Type {
		type Created struct{}
		return reflect.TypeFor[Created]()
	}()
	require.NotEqual(t, typeA, typeB)
	require.Equal(t, evmetrics.TypeLabel(typeA), evmetrics.TypeLabel(typeB))

	reg := prometheus.NewPedanticRegistry()
	m := evmetrics.New(reg)

	m.SetSubscriptions(typeA, 2)
	m.SetSubscriptions(typeB, 1)

	const header = `
# HELP evbus_subscriptions Live type-filtered subscriptions, by event type
# TYPE evbus_subscriptions gauge
`
	label := evmetrics.TypeLabel(typeA)

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(
		header+`evbus_subscriptions{event_type="`+label+`"} 3
`), "evbus_subscriptions"))

	// Releasing typeB must not hide typeA's live subscriptions.
	m.SetSubscriptions(typeB, 0)
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(
		header+`evbus_subscriptions{event_type="`+label+`"} 2
`), "evbus_subscriptions"))

	m.SetSubscriptions(typeA, 0)
	n, err := testutil.GatherAndCount(reg, "evbus_subscriptions")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestTypeLabel(t *testing.T) {
	t.Parallel()

	type Event struct{}

	require.Equal(t, "string", evmetrics.TypeLabel(reflect.TypeFor[string]()))
	require.Equal(t, "[]int", evmetrics.TypeLabel(reflect.TypeFor[[]int]()))
	require.Equal(t,
		"github.com/gordian-engine/evbus/evmetrics_test.Event",
		evmetrics.TypeLabel(reflect.TypeFor[Event]()),
	)
	require.Equal(t, "*evmetrics_test.Event", evmetrics.TypeLabel(reflect.TypeFor[*Event]()))
}

package evbusfx_test

import (
	"testing"

	"github.com/gordian-engine/evbus"
	"github.com/gordian-engine/evbus/evbusfx"
	"github.com/gordian-engine/evbus/evbustest"
	"github.com/gordian-engine/evbus/evmetrics"
	"github.com/gordian-engine/evbus/internal/evtest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestModule_providesBus(t *testing.T) {
	t.Parallel()

	var b *evbus.Bus
	app := fxtest.New(
		t,
		fx.Supply(evtest.NewLogger(t)),
		evbusfx.Module(),
		fx.Populate(&b),
	)
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, b)

	rec := evbustest.Record(evbus.Register[int](b))
	defer rec.Unsubscribe()

	require.True(t, b.Post(1))
	require.Equal(t, []int{1}, rec.Values())
}

func TestModule_withoutLogger(t *testing.T) {
	t.Parallel()

	var b *evbus.Bus
	app := fxtest.New(t, evbusfx.Module(), fx.Populate(&b))
	app.RequireStart()
	defer app.RequireStop()

	require.False(t, b.Post("nobody listening"))
}

func TestModule_usesSuppliedConfig(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	var b *evbus.Bus
	app := fxtest.New(
		t,
		fx.Supply(evtest.NewLogger(t)),
		fx.Supply(evbus.BusConfig{Metrics: evmetrics.New(reg)}),
		evbusfx.Module(),
		fx.Populate(&b),
	)
	app.RequireStart()

	sub := evbus.Register[string](b).Subscribe(nil)
	b.Post("hello")

	n, err := testutil.GatherAndCount(reg, "evbus_posts_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Stopping with a live subscription only logs.
	app.RequireStop()
	sub.Unsubscribe()
}

// Package evbusfx provides an [fx] module for the event bus.
//
// The module provides a single *[evbus.Bus] to the application graph.
// An *slog.Logger and an [evbus.BusConfig] are used if present in the graph.
//
//	app := fx.New(
//		fx.Supply(logger),
//		evbusfx.Module(),
//		fx.Invoke(func(b *evbus.Bus) {
//			// ...
//		}),
//	)
package evbusfx

import (
	"context"
	"log/slog"

	"github.com/gordian-engine/evbus"
	"go.uber.org/fx"
)

// Module returns the fx module providing a *[evbus.Bus].
func Module() fx.Option {
	return fx.Module("evbus",
		fx.Provide(NewBus),
		fx.Invoke(registerLifecycle),
	)
}

// BusParams are the optional dependencies of [NewBus].
type BusParams struct {
	fx.In

	Log    *slog.Logger    `optional:"true"`
	Config evbus.BusConfig `optional:"true"`
}

// NewBus constructs the bus from the fx graph.
// Without a logger in the graph, [slog.Default] is used.
func NewBus(p BusParams) *evbus.Bus {
	log := p.Log
	if log == nil {
		log = slog.Default()
	}

	return evbus.NewBus(log.With("sys", "evbus"), p.Config)
}

type lifecycleParams struct {
	fx.In

	LC  fx.Lifecycle
	Bus *evbus.Bus
	Log *slog.Logger `optional:"true"`
}

func registerLifecycle(p lifecycleParams) {
	log := p.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("sys", "evbus")

	p.LC.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// The bus holds no goroutines of its own,
			// but leftover subscriptions usually indicate a missed Unsubscribe.
			if subs := p.Bus.Subscriptions(); len(subs) > 0 {
				total := 0
				for _, n := range subs {
					total += n
				}
				log.Info(
					"Event bus stopping with live subscriptions",
					"types", len(subs),
					"subscriptions", total,
				)
			}
			return nil
		},
	})
}

package service

import (
	"log/slog"

	"github.com/forkline/order-events-service/config"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"service",

	fx.Provide(
		func(cfg *config.Config) DeliveryConfig {
			return DeliveryConfig{OutboxSize: cfg.Hub.OutboxSize}
		},
		func(cfg *config.Config) ReconcileConfig {
			return ReconcileConfig{
				PageSize:        cfg.Sync.PageSize,
				DefaultLookback: cfg.Sync.DefaultLookback,
				MaxParallel:     cfg.Sync.MaxParallel,
				BusinessTimeout: cfg.Sync.BusinessTimeout,
			}
		},

		fx.Annotate(
			NewDeliveryService,
			fx.As(new(Deliverer)),
		),
		NewEventDispatcher,
		fx.Annotate(
			func(d *EventDispatcher) Dispatcher { return d },
			fx.As(new(Dispatcher)),
		),
		fx.Annotate(
			NewReconcileService,
			fx.As(new(Reconciler)),
		),
	),

	// Cross-cutting concerns wrap the reconciler without touching it.
	fx.Decorate(func(orig Reconciler, logger *slog.Logger) Reconciler {
		return &ReconcileMiddleware{
			Next:   orig,
			Logger: logger,
		}
	}),
)

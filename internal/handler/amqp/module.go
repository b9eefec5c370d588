package amqp

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/forkline/order-events-service/config"
	pubsubadapter "github.com/forkline/order-events-service/internal/adapter/pubsub"
	"go.uber.org/fx"
)

var Module = fx.Module("amqp-handler",
	fx.Provide(
		pubsubadapter.NewPublisherProvider,
		pubsubadapter.NewSubscriberProvider,

		// The bus publisher backs the poison queue.
		func(pp *pubsubadapter.PublisherProvider, cfg *config.Config) (message.Publisher, error) {
			return pp.Build(cfg.AMQP.Exchange)
		},

		NewOrderEventHandler,
		NewWatermillRouter,
	),

	fx.Invoke(RegisterHandlers),
	fx.Invoke(runRouter),
)

func NewWatermillRouter(logger watermill.LoggerAdapter) (*message.Router, error) {
	return message.NewRouter(message.RouterConfig{}, logger)
}

func RegisterHandlers(
	h *OrderEventHandler,
	router *message.Router,
	subProvider *pubsubadapter.SubscriberProvider,
	poisonPublisher message.Publisher,
	cfg *config.Config,
) error {
	return h.RegisterHandlers(router, subProvider, poisonPublisher, cfg)
}

func runRouter(lc fx.Lifecycle, router *message.Router) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				// Run blocks until Close; startup failures surface in logs.
				_ = router.Run(context.Background())
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return router.Close()
		},
	})
}

package orderstore

import (
	"github.com/forkline/order-events-service/internal/adapter/authgate"
	"github.com/forkline/order-events-service/internal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("orderstore",
	fx.Provide(
		New,
		fx.Annotate(
			func(c *Client) service.OrderStore { return c },
			fx.As(new(service.OrderStore)),
		),
		fx.Annotate(
			func(c *Client) authgate.OrderDirectory { return c },
			fx.As(new(authgate.OrderDirectory)),
		),
	),
)

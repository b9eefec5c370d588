package authgate

import (
	"github.com/forkline/order-events-service/internal/domain/registry"
	"go.uber.org/fx"
)

var Module = fx.Module("authgate",
	fx.Provide(
		New,
		fx.Annotate(
			func(g *Gate) registry.Gate { return g },
			fx.As(new(registry.Gate)),
		),
	),
)

package cmd

import (
	"github.com/forkline/order-events-service/config"
	"github.com/forkline/order-events-service/infra/server/httpserver"
	"github.com/forkline/order-events-service/infra/tracing"
	"github.com/forkline/order-events-service/internal/adapter/authgate"
	"github.com/forkline/order-events-service/internal/adapter/orderstore"
	"github.com/forkline/order-events-service/internal/domain/registry"
	amqphandler "github.com/forkline/order-events-service/internal/handler/amqp"
	"github.com/forkline/order-events-service/internal/handler/httpapi"
	"github.com/forkline/order-events-service/internal/service"
	"go.uber.org/fx"
)

func NewApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			ProvideLogger,
			ProvideWatermillLogger,
		),
		tracing.Module,
		orderstore.Module,
		authgate.Module,
		registry.Module,
		service.Module,
		httpserver.Module,
		httpapi.Module,
		amqphandler.Module,
	)
}

package cmd

import (
	"log/slog"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/forkline/order-events-service/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// ProvideLogger routes application logs through the OTel bridge when
// observability is enabled, plain JSON on stdout otherwise.
func ProvideLogger(cfg *config.Config) *slog.Logger {
	if cfg.Otel.Enabled {
		return slog.New(otelslog.NewHandler(ServiceName))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func ProvideWatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logger)
}

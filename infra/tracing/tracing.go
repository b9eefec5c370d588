package tracing

import (
	"context"

	"github.com/forkline/order-events-service/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module installs a global tracer provider exporting over OTLP/HTTP when
// tracing is enabled; otherwise the default no-op provider stays in place
// and spans cost nothing.
var Module = fx.Module("tracing",
	fx.Invoke(setup),
)

func setup(lc fx.Lifecycle, cfg *config.Config) {
	if !cfg.Otel.Enabled {
		return
	}

	var tp *sdktrace.TracerProvider

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			exporter, err := otlptracehttp.New(ctx,
				otlptracehttp.WithEndpoint(cfg.Otel.Endpoint),
				otlptracehttp.WithInsecure(),
			)
			if err != nil {
				return err
			}

			tp = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(exporter),
				sdktrace.WithResource(resource.NewSchemaless(
					attribute.String("service.name", "order-events-service"),
				)),
			)
			otel.SetTracerProvider(tp)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if tp == nil {
				return nil
			}
			return tp.Shutdown(ctx)
		},
	})
}

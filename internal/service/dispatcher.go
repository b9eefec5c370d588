package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/forkline/order-events-service/internal/domain/event"
	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/domain/registry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DispatchReport summarizes one fan-out pass.
type DispatchReport struct {
	EventID   string
	Kind      event.Kind
	Channels  int
	Delivered int
	Dropped   int
}

// Dispatcher routes a domain event to its target channels and fans it out to
// the members registered at the instant of dispatch.
type Dispatcher interface {
	Publish(ctx context.Context, ev event.Eventer) DispatchReport
	Stats() model.DispatchStats
}

type EventDispatcher struct {
	hub    registry.Hubber
	logger *slog.Logger
	tracer trace.Tracer

	published uint64 // atomic
	delivered uint64 // atomic
	dropped   uint64 // atomic
}

func NewEventDispatcher(hub registry.Hubber, logger *slog.Logger) *EventDispatcher {
	return &EventDispatcher{
		hub:    hub,
		logger: logger,
		tracer: otel.Tracer("order-events-service/dispatcher"),
	}
}

// Publish delivers ev to every current member of its target channels exactly
// once, even when a connection sits in several of them. Sends never block:
// a saturated member drops the event and keeps its session. Calls for the
// same order arrive here in publication order and are fanned out
// synchronously, so per-order ordering is preserved.
func (d *EventDispatcher) Publish(ctx context.Context, ev event.Eventer) DispatchReport {
	_, span := d.tracer.Start(ctx, "dispatch.publish", trace.WithAttributes(
		attribute.String("event.kind", ev.GetKind().String()),
		attribute.String("order.id", ev.GetOrderID()),
	))
	defer span.End()

	targets := ev.Channels()
	report := DispatchReport{
		EventID:  ev.GetID(),
		Kind:     ev.GetKind(),
		Channels: len(targets),
	}

	seen := make(map[uuid.UUID]struct{})
	for _, key := range targets {
		for _, conn := range d.hub.MembersOf(key) {
			if _, dup := seen[conn.GetID()]; dup {
				continue
			}
			seen[conn.GetID()] = struct{}{}

			if conn.Send(ev) {
				report.Delivered++
				continue
			}
			report.Dropped++
			d.logger.Warn("backpressure drop",
				"event_id", ev.GetID(),
				"event_kind", ev.GetKind().String(),
				"conn_id", conn.GetID(),
				"channel", key.String(),
			)
		}
	}

	atomic.AddUint64(&d.published, 1)
	atomic.AddUint64(&d.delivered, uint64(report.Delivered))
	atomic.AddUint64(&d.dropped, uint64(report.Dropped))

	span.SetAttributes(
		attribute.Int("dispatch.delivered", report.Delivered),
		attribute.Int("dispatch.dropped", report.Dropped),
	)

	d.logger.Debug("event dispatched",
		"event_id", ev.GetID(),
		"event_kind", ev.GetKind().String(),
		"channels", report.Channels,
		"delivered", report.Delivered,
		"dropped", report.Dropped,
	)
	return report
}

func (d *EventDispatcher) Stats() model.DispatchStats {
	return model.DispatchStats{
		Published: atomic.LoadUint64(&d.published),
		Delivered: atomic.LoadUint64(&d.delivered),
		Dropped:   atomic.LoadUint64(&d.dropped),
	}
}

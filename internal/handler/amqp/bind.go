package amqp

import (
	"context"
	"encoding/json"
	"runtime/debug"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/forkline/order-events-service/internal/domain/event"
)

// DomainHandler maps a decoded bus payload to a routed domain event.
type DomainHandler[T any] func(ctx context.Context, payload *T) (event.Eventer, error)

// Bind connects watermill to domain logic: panic recovery, decoding and the
// fan-out dispatch. Decode failures are ACKed (poison pill protection);
// handler errors are NACKed so the retry policy kicks in.
func Bind[T any](h *OrderEventHandler, fn DomainHandler[T]) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("panic recovered",
					"err", r,
					"stack", string(debug.Stack()),
					"msg_id", msg.UUID,
				)
			}
		}()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			h.logger.Error("decode failed", "err", err, "msg_id", msg.UUID)
			return nil
		}

		ev, err := fn(msg.Context(), payload)
		if err != nil {
			return err
		}
		if ev == nil {
			return nil
		}

		// Fan-out to every live member of the event's target channels.
		// The report is informational: an event nobody is connected for
		// is a normal outcome, not a failure.
		h.dispatcher.Publish(msg.Context(), ev)
		return nil
	}
}

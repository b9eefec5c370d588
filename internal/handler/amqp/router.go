package amqp

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/forkline/order-events-service/config"
	"github.com/forkline/order-events-service/internal/adapter/pubsub"
	"github.com/forkline/order-events-service/internal/service"
	"github.com/google/uuid"
)

const (
	// ------------------- TOPICS (ROUTING KEYS) -----------------
	// Producers publish as order.{businessId}.<fact>.v1.
	TopicOrderCreated  = "order.#.created.v1"
	TopicOrderAssigned = "order.#.assigned.v1"
	TopicOrderStatus   = "order.#.status_updated.v1"
	TopicPayment       = "order.#.payment_updated.v1"
)

type OrderEventHandler struct {
	dispatcher service.Dispatcher
	logger     *slog.Logger
}

func NewOrderEventHandler(dispatcher service.Dispatcher, logger *slog.Logger) *OrderEventHandler {
	return &OrderEventHandler{dispatcher: dispatcher, logger: logger}
}

func (h *OrderEventHandler) RegisterHandlers(
	router *message.Router,
	subProvider *pubsub.SubscriberProvider,
	poisonPublisher message.Publisher,
	cfg *config.Config,
) error {
	poisonTopic := cfg.AMQP.QueuePrefix + ".poison"
	poison, err := middleware.PoisonQueue(poisonPublisher, poisonTopic)
	if err != nil {
		return fmt.Errorf("poison queue setup: %w", err)
	}

	configs := []struct {
		name    string
		topic   string
		handler message.NoPublishHandlerFunc
	}{
		{"ON_ORDER_CREATED", TopicOrderCreated, Bind(h, h.OnOrderCreatedV1)},
		{"ON_ORDER_ASSIGNED", TopicOrderAssigned, Bind(h, h.OnOrderAssignedV1)},
		{"ON_ORDER_STATUS", TopicOrderStatus, Bind(h, h.OnOrderStatusV1)},
		{"ON_PAYMENT", TopicPayment, Bind(h, h.OnPaymentV1)},
	}

	for _, c := range configs {
		// Every node gets its own queue per handler so each instance
		// sees every event and can serve its local connections.
		instanceID := uuid.NewString()[:8]
		handlerQueue := fmt.Sprintf("%s.%s.%s", cfg.AMQP.QueuePrefix, instanceID, c.name)

		sub, err := subProvider.Build(handlerQueue, cfg.AMQP.Exchange, c.topic)
		if err != nil {
			return err
		}

		router.AddConsumerHandler(c.name, c.topic, sub, c.handler).AddMiddleware(
			TraceIDMiddleware,
			LoggingMiddleware(h.logger),
			NewRetryMiddleware().Middleware,
			poison,
			middleware.NewThrottle(500, time.Second).Middleware,
			middleware.Timeout(time.Second*30),
		)
	}

	h.logger.Info("amqp pipeline ready",
		"exchange", cfg.AMQP.Exchange,
		"queue_prefix", cfg.AMQP.QueuePrefix,
	)
	return nil
}

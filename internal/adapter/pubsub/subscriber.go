package pubsub

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/forkline/order-events-service/config"
)

// SubscriberProvider builds one subscriber per consumer queue, each bound to
// a topic pattern on a durable exchange.
type SubscriberProvider struct {
	url    string
	logger watermill.LoggerAdapter
}

func NewSubscriberProvider(cfg *config.Config, logger watermill.LoggerAdapter) *SubscriberProvider {
	return &SubscriberProvider{
		url:    cfg.AMQP.URL,
		logger: logger,
	}
}

func (p *SubscriberProvider) Build(queue, exchange, topic string) (message.Subscriber, error) {
	cfg := amqp.NewDurablePubSubConfig(p.url, amqp.GenerateQueueNameConstant(queue))
	cfg.Exchange = amqp.ExchangeConfig{
		GenerateName: func(string) string { return exchange },
		Type:         "topic",
		Durable:      true,
	}
	cfg.QueueBind.GenerateRoutingKey = func(topic string) string { return topic }

	return amqp.NewSubscriber(cfg, p.logger)
}

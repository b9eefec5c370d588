package pubsub

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/forkline/order-events-service/config"
)

// PublisherProvider builds topic-exchange publishers bound to the broker
// configured for this node.
type PublisherProvider struct {
	url    string
	logger watermill.LoggerAdapter
}

func NewPublisherProvider(cfg *config.Config, logger watermill.LoggerAdapter) *PublisherProvider {
	return &PublisherProvider{
		url:    cfg.AMQP.URL,
		logger: logger,
	}
}

func (p *PublisherProvider) Build(exchange string) (message.Publisher, error) {
	cfg := amqp.NewDurablePubSubConfig(p.url, nil)
	cfg.Exchange = amqp.ExchangeConfig{
		GenerateName: func(string) string { return exchange },
		Type:         "topic",
		Durable:      true,
	}
	cfg.Publish.GenerateRoutingKey = func(topic string) string { return topic }

	return amqp.NewPublisher(cfg, p.logger)
}

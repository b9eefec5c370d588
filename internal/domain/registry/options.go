package registry

const defaultOutboxSize = 256

type connectorConfig struct {
	outboxSize int
}

// ConnectorOption configures a new connector.
type ConnectorOption func(*connectorConfig)

// WithOutboxSize sets the backpressure threshold: the number of undelivered
// events buffered per connection before publishes start dropping.
func WithOutboxSize(size int) ConnectorOption {
	return func(c *connectorConfig) {
		if size > 0 {
			c.outboxSize = size
		}
	}
}

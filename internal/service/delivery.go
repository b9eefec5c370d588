package service

import (
	"context"
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/domain/registry"
	"github.com/google/uuid"
)

// Deliverer is the primary interface for transport handlers (websocket,
// long-poll). It owns the connection lifecycle against the hub.
type Deliverer interface {
	Subscribe(ctx context.Context, role model.Role, principalID string) (registry.Connector, error)
	Join(ctx context.Context, connID uuid.UUID, key model.ChannelKey) error
	Leave(connID uuid.UUID, key model.ChannelKey)
	Unsubscribe(connID uuid.UUID)
}

type DeliveryService struct {
	hub        registry.Hubber
	outboxSize int
}

type DeliveryConfig struct {
	OutboxSize int
}

func NewDeliveryService(hub registry.Hubber, cfg DeliveryConfig) *DeliveryService {
	return &DeliveryService{
		hub:        hub,
		outboxSize: cfg.OutboxSize,
	}
}

// Subscribe creates a connector and registers it with the hub. The connector
// starts with no channel memberships; the client joins channels explicitly.
func (s *DeliveryService) Subscribe(ctx context.Context, role model.Role, principalID string) (registry.Connector, error) {
	conn := registry.NewConnector(ctx, role, principalID, registry.WithOutboxSize(s.outboxSize))
	if err := s.hub.Register(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func (s *DeliveryService) Join(ctx context.Context, connID uuid.UUID, key model.ChannelKey) error {
	// Gate checks may call out to the backend; bound them so a stalled
	// gate cannot hold the client's control frame forever.
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.hub.Join(ctx, connID, key)
}

func (s *DeliveryService) Leave(connID uuid.UUID, key model.ChannelKey) {
	s.hub.Leave(connID, key)
}

// Unsubscribe tears the connection down. Hub.Unregister removes all
// memberships atomically and closes the connector.
func (s *DeliveryService) Unsubscribe(connID uuid.UUID) {
	s.hub.Unregister(connID)
}

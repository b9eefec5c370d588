package registry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/forkline/order-events-service/internal/domain/event"
	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/google/uuid"
)

// Interface guard
var _ Connector = (*connect)(nil)

// Connector is what transport handlers and the dispatcher see of a live
// session. The concrete type stays unexported to force interface usage.
type Connector interface {
	GetID() uuid.UUID
	GetRole() model.Role
	GetPrincipalID() string
	GetConnectedAt() time.Time

	// Send enqueues an event without blocking. A full outbox means the
	// event is dropped for this member only; the client self-heals via
	// the catch-up service.
	Send(ev event.Eventer) bool
	Recv() <-chan event.Eventer
	Done() <-chan struct{}
	Dropped() uint64
	Close()
}

type connect struct {
	id          uuid.UUID
	role        model.Role
	principalID string
	connectedAt time.Time

	ctx      context.Context
	cancelFn context.CancelFunc

	outbox chan event.Eventer

	closeOnce    sync.Once
	droppedCount uint64 // atomic
}

// NewConnector creates a session-scoped connector. The outbox is the
// backpressure boundary between publishers and this one consumer.
func NewConnector(ctx context.Context, role model.Role, principalID string, opts ...ConnectorOption) Connector {
	cfg := connectorConfig{outboxSize: defaultOutboxSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	childCtx, cancel := context.WithCancel(ctx)

	return &connect{
		id:          uuid.New(),
		role:        role,
		principalID: principalID,
		connectedAt: time.Now(),
		ctx:         childCtx,
		cancelFn:    cancel,
		outbox:      make(chan event.Eventer, cfg.outboxSize),
	}
}

func (c *connect) GetID() uuid.UUID          { return c.id }
func (c *connect) GetRole() model.Role       { return c.role }
func (c *connect) GetPrincipalID() string    { return c.principalID }
func (c *connect) GetConnectedAt() time.Time { return c.connectedAt }

func (c *connect) Send(ev event.Eventer) bool {
	select {
	case <-c.ctx.Done():
		return false
	default:
	}

	select {
	case c.outbox <- ev:
		return true
	default:
		// Saturated outbox: drop for this member, never block the publisher.
		atomic.AddUint64(&c.droppedCount, 1)
		return false
	}
}

func (c *connect) Recv() <-chan event.Eventer { return c.outbox }
func (c *connect) Done() <-chan struct{}      { return c.ctx.Done() }
func (c *connect) Dropped() uint64            { return atomic.LoadUint64(&c.droppedCount) }

// Close cancels the session context. The outbox channel is left open so a
// concurrent Send can never panic; receivers watch Done() instead.
func (c *connect) Close() {
	c.closeOnce.Do(c.cancelFn)
}

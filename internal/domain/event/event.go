package event

import (
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
)

type Kind int16

const (
	OrderCreated Kind = iota + 1
	OrderAssignedToDelivery
	OrderStatusUpdated
	PaymentUpdated
)

func (k Kind) String() string {
	switch k {
	case OrderCreated:
		return "order.created"
	case OrderAssignedToDelivery:
		return "order.assigned_to_delivery"
	case OrderStatusUpdated:
		return "order.status_updated"
	case PaymentUpdated:
		return "order.payment_updated"
	default:
		return "unknown"
	}
}

type Priority int32

const (
	PriorityLow    Priority = 10
	PriorityNormal Priority = 20
	PriorityHigh   Priority = 30
)

// Eventer is the contract for all order facts flowing through the dispatcher.
// Events are ephemeral: they are consumed exactly once per dispatch pass and
// never stored by this service.
type Eventer interface {
	GetID() string
	GetKind() Kind
	GetOrderID() string
	GetBusinessID() string
	GetOccurredAt() time.Time
	GetPriority() Priority
	GetPayload() any

	// Channels returns the broadcast groups this event is routed to.
	// The routing table is fixed per kind; members are resolved at the
	// instant of dispatch.
	Channels() []model.ChannelKey
}

package event

import (
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/google/uuid"
)

var (
	_ Eventer = (*OrderCreatedEvent)(nil)
	_ Eventer = (*OrderAssignedEvent)(nil)
	_ Eventer = (*OrderStatusEvent)(nil)
	_ Eventer = (*PaymentEvent)(nil)
)

// orderFact carries the identity fields every order event shares.
type orderFact struct {
	ID                uuid.UUID
	OrderID           string
	BusinessID        string
	CustomerID        string
	DeliveryCompanyID string
	OccurredAt        time.Time
}

func newOrderFact(orderID, businessID, customerID, deliveryCompanyID string, occurredAt time.Time) orderFact {
	return orderFact{
		ID:                uuid.New(),
		OrderID:           orderID,
		BusinessID:        businessID,
		CustomerID:        customerID,
		DeliveryCompanyID: deliveryCompanyID,
		OccurredAt:        occurredAt,
	}
}

func (f orderFact) GetID() string            { return f.ID.String() }
func (f orderFact) GetOrderID() string       { return f.OrderID }
func (f orderFact) GetBusinessID() string    { return f.BusinessID }
func (f orderFact) GetOccurredAt() time.Time { return f.OccurredAt }

// OrderCreatedEvent announces a freshly placed order to the business staff.
type OrderCreatedEvent struct {
	orderFact
	Preview model.OrderPreview
}

func NewOrderCreated(preview model.OrderPreview, customerID string, occurredAt time.Time) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		orderFact: newOrderFact(preview.ID, preview.BusinessID, customerID, "", occurredAt),
		Preview:   preview,
	}
}

func (e *OrderCreatedEvent) GetKind() Kind         { return OrderCreated }
func (e *OrderCreatedEvent) GetPriority() Priority { return PriorityHigh }
func (e *OrderCreatedEvent) GetPayload() any       { return e.Preview }

func (e *OrderCreatedEvent) Channels() []model.ChannelKey {
	return []model.ChannelKey{
		{Kind: model.ChannelBusiness, ScopeID: e.BusinessID},
	}
}

// OrderAssignedEvent notifies a delivery company that an order was handed to it.
type OrderAssignedEvent struct {
	orderFact
}

func NewOrderAssigned(orderID, businessID, customerID, deliveryCompanyID string, occurredAt time.Time) *OrderAssignedEvent {
	return &OrderAssignedEvent{
		orderFact: newOrderFact(orderID, businessID, customerID, deliveryCompanyID, occurredAt),
	}
}

func (e *OrderAssignedEvent) GetKind() Kind         { return OrderAssignedToDelivery }
func (e *OrderAssignedEvent) GetPriority() Priority { return PriorityHigh }
func (e *OrderAssignedEvent) GetPayload() any       { return nil }

func (e *OrderAssignedEvent) Channels() []model.ChannelKey {
	return []model.ChannelKey{
		{Kind: model.ChannelDeliveryCompany, ScopeID: e.DeliveryCompanyID},
		{Kind: model.ChannelOrder, ScopeID: e.OrderID},
	}
}

// OrderStatusEvent reports a status transition to every party watching the order.
type OrderStatusEvent struct {
	orderFact
	Status string
}

func NewOrderStatus(orderID, businessID, customerID, deliveryCompanyID, status string, occurredAt time.Time) *OrderStatusEvent {
	return &OrderStatusEvent{
		orderFact: newOrderFact(orderID, businessID, customerID, deliveryCompanyID, occurredAt),
		Status:    status,
	}
}

func (e *OrderStatusEvent) GetKind() Kind         { return OrderStatusUpdated }
func (e *OrderStatusEvent) GetPriority() Priority { return PriorityNormal }
func (e *OrderStatusEvent) GetPayload() any       { return e.Status }

func (e *OrderStatusEvent) Channels() []model.ChannelKey {
	keys := []model.ChannelKey{
		{Kind: model.ChannelOrder, ScopeID: e.OrderID},
		{Kind: model.ChannelBusiness, ScopeID: e.BusinessID},
		{Kind: model.ChannelCustomer, ScopeID: e.CustomerID},
	}
	// The delivery company channel only exists once the order is assigned.
	if e.DeliveryCompanyID != "" {
		keys = append(keys, model.ChannelKey{Kind: model.ChannelDeliveryCompany, ScopeID: e.DeliveryCompanyID})
	}
	return keys
}

// PaymentEvent reports a payment state change (status, receipt).
type PaymentEvent struct {
	orderFact
	Payment model.PaymentInfo
}

func NewPayment(orderID, businessID, customerID string, payment model.PaymentInfo, occurredAt time.Time) *PaymentEvent {
	return &PaymentEvent{
		orderFact: newOrderFact(orderID, businessID, customerID, "", occurredAt),
		Payment:   payment,
	}
}

func (e *PaymentEvent) GetKind() Kind         { return PaymentUpdated }
func (e *PaymentEvent) GetPriority() Priority { return PriorityNormal }
func (e *PaymentEvent) GetPayload() any       { return e.Payment }

func (e *PaymentEvent) Channels() []model.ChannelKey {
	return []model.ChannelKey{
		{Kind: model.ChannelOrder, ScopeID: e.OrderID},
		{Kind: model.ChannelBusiness, ScopeID: e.BusinessID},
		{Kind: model.ChannelCustomer, ScopeID: e.CustomerID},
	}
}

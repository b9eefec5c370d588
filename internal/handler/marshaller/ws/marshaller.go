package wsmarshaller

import (
	"encoding/json"
	"time"

	"github.com/forkline/order-events-service/internal/domain/event"
	"github.com/forkline/order-events-service/internal/domain/model"
)

// WireEvent is the JSON shape pushed to subscribed connections: one object
// per event, discriminated by Type, identity fields flattened.
type WireEvent struct {
	Type              string  `json:"type"`
	ID                string  `json:"id"`
	OrderID           string  `json:"orderId"`
	BusinessID        string  `json:"businessId"`
	CustomerID        string  `json:"customerId,omitempty"`
	DeliveryCompanyID string  `json:"deliveryCompanyId,omitempty"`
	OccurredAt        string  `json:"occurredAt"`
	Status            string  `json:"status,omitempty"`
	PaymentStatus     string  `json:"paymentStatus,omitempty"`
	ReceiptURL        string  `json:"receiptUrl,omitempty"`
	CustomerName      string  `json:"customerName,omitempty"`
	Total             float64 `json:"total,omitempty"`
}

// MarshallDeliveryEvent prepares one event for websocket transmission.
func MarshallDeliveryEvent(ev event.Eventer) ([]byte, error) {
	return json.Marshal(MapEvent(ev))
}

// MapEvent flattens a domain event into its wire form.
func MapEvent(ev event.Eventer) *WireEvent {
	res := &WireEvent{
		Type:       ev.GetKind().String(),
		ID:         ev.GetID(),
		OrderID:    ev.GetOrderID(),
		BusinessID: ev.GetBusinessID(),
		OccurredAt: ev.GetOccurredAt().UTC().Format(time.RFC3339),
	}

	switch e := ev.(type) {
	case *event.OrderCreatedEvent:
		res.CustomerID = e.CustomerID
		res.CustomerName = e.Preview.CustomerName
		res.Total = e.Preview.Total
	case *event.OrderAssignedEvent:
		res.CustomerID = e.CustomerID
		res.DeliveryCompanyID = e.DeliveryCompanyID
	case *event.OrderStatusEvent:
		res.CustomerID = e.CustomerID
		res.DeliveryCompanyID = e.DeliveryCompanyID
		res.Status = e.Status
	case *event.PaymentEvent:
		res.CustomerID = e.CustomerID
		if payment, ok := ev.GetPayload().(model.PaymentInfo); ok {
			res.PaymentStatus = payment.Status
			res.ReceiptURL = payment.ReceiptURL
		}
	}

	return res
}

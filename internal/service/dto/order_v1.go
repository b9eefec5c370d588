package dto

import (
	"github.com/forkline/order-events-service/internal/domain/event"
	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/domain/util"
)

// Wire payloads published by the order-mutation services. One struct per
// topic version; ToDomain maps them onto routed domain events.

type OrderCreatedV1 struct {
	OrderID      string  `json:"order_id"`
	BusinessID   string  `json:"business_id"`
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	Total        float64 `json:"total"`
	OccurredAt   string  `json:"occurred_at"`
}

func (d *OrderCreatedV1) ToDomain() event.Eventer {
	preview := model.OrderPreview{
		ID:           d.OrderID,
		BusinessID:   d.BusinessID,
		CustomerName: d.CustomerName,
		CreatedAt:    util.SafeParseRFC3339(d.OccurredAt),
		Total:        d.Total,
	}
	return event.NewOrderCreated(preview, d.CustomerID, util.SafeParseRFC3339(d.OccurredAt))
}

type OrderAssignedV1 struct {
	OrderID           string `json:"order_id"`
	BusinessID        string `json:"business_id"`
	CustomerID        string `json:"customer_id"`
	DeliveryCompanyID string `json:"delivery_company_id"`
	OccurredAt        string `json:"occurred_at"`
}

func (d *OrderAssignedV1) ToDomain() event.Eventer {
	return event.NewOrderAssigned(
		d.OrderID, d.BusinessID, d.CustomerID, d.DeliveryCompanyID,
		util.SafeParseRFC3339(d.OccurredAt),
	)
}

type OrderStatusV1 struct {
	OrderID           string `json:"order_id"`
	BusinessID        string `json:"business_id"`
	CustomerID        string `json:"customer_id"`
	DeliveryCompanyID string `json:"delivery_company_id,omitempty"`
	Status            string `json:"status"`
	OccurredAt        string `json:"occurred_at"`
}

func (d *OrderStatusV1) ToDomain() event.Eventer {
	return event.NewOrderStatus(
		d.OrderID, d.BusinessID, d.CustomerID, d.DeliveryCompanyID, d.Status,
		util.SafeParseRFC3339(d.OccurredAt),
	)
}

type PaymentV1 struct {
	OrderID       string `json:"order_id"`
	BusinessID    string `json:"business_id"`
	CustomerID    string `json:"customer_id"`
	PaymentStatus string `json:"payment_status"`
	ReceiptURL    string `json:"receipt_url,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

func (d *PaymentV1) ToDomain() event.Eventer {
	return event.NewPayment(
		d.OrderID, d.BusinessID, d.CustomerID,
		model.PaymentInfo{Status: d.PaymentStatus, ReceiptURL: d.ReceiptURL},
		util.SafeParseRFC3339(d.OccurredAt),
	)
}

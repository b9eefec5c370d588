package model

import "time"

// OrderPreview is the projection of an order returned by catch-up queries.
// It carries just enough for a client to refresh its list view; the full
// order lives in the order store.
type OrderPreview struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"businessId"`
	CustomerName string    `json:"customerName"`
	CreatedAt    time.Time `json:"createdAt"`
	Total        float64   `json:"total"`
}

// OrderAccess names the parties allowed to watch an order's channel.
type OrderAccess struct {
	BusinessID        string `json:"businessId"`
	CustomerID        string `json:"customerId"`
	DeliveryCompanyID string `json:"deliveryCompanyId,omitempty"`
}

// PaymentInfo is the payload of a payment update event.
type PaymentInfo struct {
	Status     string `json:"status"`
	ReceiptURL string `json:"receiptUrl,omitempty"`
}

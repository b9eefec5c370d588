package wsmarshaller

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/forkline/order-events-service/internal/domain/event"
	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/stretchr/testify/require"
)

func TestMapEvent_OrderCreated(t *testing.T) {
	req := require.New(t)

	occurred := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	ev := event.NewOrderCreated(model.OrderPreview{
		ID: "O1", BusinessID: "B1", CustomerName: "Ada",
		CreatedAt: occurred, Total: 42.5,
	}, "C1", occurred)

	wire := MapEvent(ev)

	req.Equal("order.created", wire.Type)
	req.Equal("O1", wire.OrderID)
	req.Equal("B1", wire.BusinessID)
	req.Equal("C1", wire.CustomerID)
	req.Equal("Ada", wire.CustomerName)
	req.Equal(42.5, wire.Total)
	req.Equal("2026-03-01T12:30:00Z", wire.OccurredAt)
	req.NotEmpty(wire.ID)
}

func TestMapEvent_StatusOmitsAbsentDeliveryCompany(t *testing.T) {
	req := require.New(t)

	ev := event.NewOrderStatus("O1", "B1", "C1", "", "COOKING", time.Now())

	raw, err := MarshallDeliveryEvent(ev)
	req.NoError(err)

	var decoded map[string]any
	req.NoError(json.Unmarshal(raw, &decoded))

	req.Equal("order.status_updated", decoded["type"])
	req.Equal("COOKING", decoded["status"])
	req.NotContains(decoded, "deliveryCompanyId")
	req.NotContains(decoded, "paymentStatus")
}

func TestMapEvent_AssignedCarriesDeliveryCompany(t *testing.T) {
	req := require.New(t)

	ev := event.NewOrderAssigned("O1", "B1", "C1", "D1", time.Now())
	wire := MapEvent(ev)

	req.Equal("order.assigned_to_delivery", wire.Type)
	req.Equal("D1", wire.DeliveryCompanyID)
	req.Empty(wire.Status)
}

func TestMapEvent_Payment(t *testing.T) {
	req := require.New(t)

	ev := event.NewPayment("O1", "B1", "C1", model.PaymentInfo{
		Status:     "PAID",
		ReceiptURL: "https://pay.example/r/1",
	}, time.Now())

	wire := MapEvent(ev)

	req.Equal("order.payment_updated", wire.Type)
	req.Equal("PAID", wire.PaymentStatus)
	req.Equal("https://pay.example/r/1", wire.ReceiptURL)
}

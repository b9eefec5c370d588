package amqp

import (
	"context"
	"fmt"

	"github.com/forkline/order-events-service/internal/domain/event"
	"github.com/forkline/order-events-service/internal/service/dto"
)

func (h *OrderEventHandler) OnOrderCreatedV1(ctx context.Context, raw *dto.OrderCreatedV1) (event.Eventer, error) {
	if raw.OrderID == "" || raw.BusinessID == "" {
		return nil, fmt.Errorf("order created payload missing identity: order=%q business=%q", raw.OrderID, raw.BusinessID)
	}
	return raw.ToDomain(), nil
}

func (h *OrderEventHandler) OnOrderAssignedV1(ctx context.Context, raw *dto.OrderAssignedV1) (event.Eventer, error) {
	if raw.OrderID == "" || raw.DeliveryCompanyID == "" {
		return nil, fmt.Errorf("order assigned payload missing identity: order=%q company=%q", raw.OrderID, raw.DeliveryCompanyID)
	}
	return raw.ToDomain(), nil
}

func (h *OrderEventHandler) OnOrderStatusV1(ctx context.Context, raw *dto.OrderStatusV1) (event.Eventer, error) {
	if raw.OrderID == "" || raw.Status == "" {
		return nil, fmt.Errorf("order status payload missing identity: order=%q status=%q", raw.OrderID, raw.Status)
	}
	return raw.ToDomain(), nil
}

func (h *OrderEventHandler) OnPaymentV1(ctx context.Context, raw *dto.PaymentV1) (event.Eventer, error) {
	if raw.OrderID == "" || raw.PaymentStatus == "" {
		return nil, fmt.Errorf("payment payload missing identity: order=%q status=%q", raw.OrderID, raw.PaymentStatus)
	}
	return raw.ToDomain(), nil
}

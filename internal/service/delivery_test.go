package service

import (
	"context"
	"testing"
	"time"

	"github.com/forkline/order-events-service/internal/domain/event"
	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/domain/registry"
	"github.com/stretchr/testify/require"
)

// Walks a full session: connect, join the business feed, receive a live
// event, disconnect, miss an event, then catch up through reconcile.
func TestDelivery_SessionLifecycle(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	hub := registry.NewHub(allowAllGate{})
	delivery := NewDeliveryService(hub, DeliveryConfig{OutboxSize: 8})
	dispatcher := NewEventDispatcher(hub, discardLogger())

	store := newFakeStore()
	reconciler := NewReconcileService(store, ReconcileConfig{})

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	conn, err := delivery.Subscribe(ctx, model.RoleBusinessStaff, "B1")
	req.NoError(err)
	req.NoError(delivery.Join(ctx, conn.GetID(), model.NewChannelKey(model.ChannelBusiness, "B1")))

	preview := model.OrderPreview{
		ID: "O1", BusinessID: "B1", CustomerName: "Ada",
		CreatedAt: t0.Add(time.Minute), Total: 19.9,
	}
	report := dispatcher.Publish(ctx, event.NewOrderCreated(preview, "C1", t0.Add(time.Minute)))
	req.Equal(1, report.Delivered)

	live := <-conn.Recv()
	req.Equal(event.OrderCreated, live.GetKind())
	req.Equal("O1", live.GetOrderID())

	delivery.Unsubscribe(conn.GetID())
	<-conn.Done()

	// Events published while offline reach nobody.
	report = dispatcher.Publish(ctx, event.NewOrderStatus("O1", "B1", "C1", "", "READY", t0.Add(2*time.Minute)))
	req.Zero(report.Delivered)
	req.Zero(report.Dropped)

	// On reconnect the client reconciles from its last sync point.
	store.orders["B1"] = []model.OrderPreview{preview}
	result := reconciler.Reconcile(ctx, model.SyncRequest{
		SyncTimes: map[string]*time.Time{"B1": syncTime(t0)},
	})

	b1 := result.Businesses["B1"]
	req.Nil(b1.Err)
	req.Len(b1.Orders, 1)
	req.Equal("O1", b1.Orders[0].ID)

	call := store.callFor(t, "B1")
	req.Equal(t0, call.Since)
}

func TestDelivery_SubscribeRejectsDuplicateRegistration(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	hub := registry.NewHub(allowAllGate{})
	delivery := NewDeliveryService(hub, DeliveryConfig{OutboxSize: 8})

	conn, err := delivery.Subscribe(ctx, model.RoleCustomer, "C1")
	req.NoError(err)
	t.Cleanup(conn.Close)

	err = hub.Register(conn)
	req.ErrorIs(err, registry.ErrDuplicateConnection)
}

func TestDelivery_JoinPropagatesDenial(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	hub := registry.NewHub(denyAllGate{})
	delivery := NewDeliveryService(hub, DeliveryConfig{OutboxSize: 8})

	conn, err := delivery.Subscribe(ctx, model.RoleCustomer, "C1")
	req.NoError(err)
	t.Cleanup(conn.Close)

	err = delivery.Join(ctx, conn.GetID(), model.NewChannelKey(model.ChannelBusiness, "B1"))
	req.ErrorIs(err, registry.ErrJoinDenied)
}

type denyAllGate struct{}

func (denyAllGate) Check(context.Context, model.Role, string, model.ChannelKey) (bool, error) {
	return false, nil
}

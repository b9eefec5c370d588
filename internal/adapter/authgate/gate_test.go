package authgate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	access model.OrderAccess
	err    error
	calls  int
}

func (d *fakeDirectory) GetOrderAccess(context.Context, string) (model.OrderAccess, error) {
	d.calls++
	return d.access, d.err
}

func newTestGate(directory OrderDirectory) *Gate {
	return New(directory, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGate_IdentityChannels(t *testing.T) {
	gate := newTestGate(&fakeDirectory{})
	ctx := context.Background()

	cases := []struct {
		name      string
		role      model.Role
		principal string
		key       model.ChannelKey
		want      bool
	}{
		{"customer own channel", model.RoleCustomer, "C1", model.NewChannelKey(model.ChannelCustomer, "C1"), true},
		{"customer foreign channel", model.RoleCustomer, "C1", model.NewChannelKey(model.ChannelCustomer, "C2"), false},
		{"customer on business channel", model.RoleCustomer, "B1", model.NewChannelKey(model.ChannelBusiness, "B1"), false},
		{"staff own business", model.RoleBusinessStaff, "B1", model.NewChannelKey(model.ChannelBusiness, "B1"), true},
		{"staff foreign business", model.RoleBusinessStaff, "B1", model.NewChannelKey(model.ChannelBusiness, "B2"), false},
		{"courier own company", model.RoleDeliveryStaff, "D1", model.NewChannelKey(model.ChannelDeliveryCompany, "D1"), true},
		{"courier foreign company", model.RoleDeliveryStaff, "D1", model.NewChannelKey(model.ChannelDeliveryCompany, "D2"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := gate.Check(ctx, tc.role, tc.principal, tc.key)
			require.NoError(t, err)
			require.Equal(t, tc.want, allowed)
		})
	}
}

func TestGate_OrderChannelOwnership(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	key := model.NewChannelKey(model.ChannelOrder, "O1")

	directory := &fakeDirectory{access: model.OrderAccess{
		BusinessID:        "B1",
		CustomerID:        "C1",
		DeliveryCompanyID: "D1",
	}}
	gate := newTestGate(directory)

	allowed, err := gate.Check(ctx, model.RoleCustomer, "C1", key)
	req.NoError(err)
	req.True(allowed)

	allowed, err = gate.Check(ctx, model.RoleBusinessStaff, "B1", key)
	req.NoError(err)
	req.True(allowed)

	allowed, err = gate.Check(ctx, model.RoleDeliveryStaff, "D2", key)
	req.NoError(err)
	req.False(allowed)
}

func TestGate_UnassignedOrderRejectsDeliveryStaff(t *testing.T) {
	req := require.New(t)

	directory := &fakeDirectory{access: model.OrderAccess{BusinessID: "B1", CustomerID: "C1"}}
	gate := newTestGate(directory)

	allowed, err := gate.Check(context.Background(), model.RoleDeliveryStaff, "D1",
		model.NewChannelKey(model.ChannelOrder, "O1"))
	req.NoError(err)
	req.False(allowed)
}

func TestGate_CachesOrderVerdicts(t *testing.T) {
	req := require.New(t)
	key := model.NewChannelKey(model.ChannelOrder, "O1")

	directory := &fakeDirectory{access: model.OrderAccess{CustomerID: "C1"}}
	gate := newTestGate(directory)

	for range 3 {
		allowed, err := gate.Check(context.Background(), model.RoleCustomer, "C1", key)
		req.NoError(err)
		req.True(allowed)
	}
	req.Equal(1, directory.calls)

	// A different principal is a different cache entry.
	allowed, err := gate.Check(context.Background(), model.RoleCustomer, "C2", key)
	req.NoError(err)
	req.False(allowed)
	req.Equal(2, directory.calls)
}

func TestGate_DirectoryFailurePropagates(t *testing.T) {
	req := require.New(t)

	directory := &fakeDirectory{err: errors.New("backend down")}
	gate := newTestGate(directory)

	allowed, err := gate.Check(context.Background(), model.RoleCustomer, "C1",
		model.NewChannelKey(model.ChannelOrder, "O1"))
	req.Error(err)
	req.False(allowed)

	// Failures are not cached; the next attempt retries the lookup.
	_, _ = gate.Check(context.Background(), model.RoleCustomer, "C1",
		model.NewChannelKey(model.ChannelOrder, "O1"))
	req.Equal(2, directory.calls)
}

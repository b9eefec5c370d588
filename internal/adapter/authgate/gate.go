package authgate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/domain/registry"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Interface guard
var _ registry.Gate = (*Gate)(nil)

// OrderDirectory resolves which parties an order belongs to.
type OrderDirectory interface {
	GetOrderAccess(ctx context.Context, orderID string) (model.OrderAccess, error)
}

// Gate decides channel admission. Identity-scoped channels (BUSINESS,
// DELIVERY_COMPANY, CUSTOMER) are matched against the connection's own
// principal locally; ORDER channels require an ownership lookup against the
// backend, with verdicts cached in an LRU to keep rejoin storms cheap.
type Gate struct {
	directory OrderDirectory
	cache     *lru.Cache[string, bool]
	logger    *slog.Logger
}

func New(directory OrderDirectory, logger *slog.Logger) *Gate {
	cache, _ := lru.New[string, bool](10_000)
	return &Gate{
		directory: directory,
		cache:     cache,
		logger:    logger,
	}
}

func (g *Gate) Check(ctx context.Context, role model.Role, principalID string, key model.ChannelKey) (bool, error) {
	switch key.Kind {
	case model.ChannelCustomer:
		return role == model.RoleCustomer && principalID == key.ScopeID, nil
	case model.ChannelBusiness:
		return role == model.RoleBusinessStaff && principalID == key.ScopeID, nil
	case model.ChannelDeliveryCompany:
		return role == model.RoleDeliveryStaff && principalID == key.ScopeID, nil
	case model.ChannelOrder:
		return g.checkOrder(ctx, role, principalID, key.ScopeID)
	default:
		return false, nil
	}
}

func (g *Gate) checkOrder(ctx context.Context, role model.Role, principalID, orderID string) (bool, error) {
	cacheKey := fmt.Sprintf("%s|%s|%s", role, principalID, orderID)
	if verdict, ok := g.cache.Get(cacheKey); ok {
		return verdict, nil
	}

	access, err := g.directory.GetOrderAccess(ctx, orderID)
	if err != nil {
		g.logger.Warn("order access lookup failed",
			"order_id", orderID,
			"err", err,
		)
		return false, err
	}

	var allowed bool
	switch role {
	case model.RoleCustomer:
		allowed = principalID == access.CustomerID
	case model.RoleBusinessStaff:
		allowed = principalID == access.BusinessID
	case model.RoleDeliveryStaff:
		allowed = access.DeliveryCompanyID != "" && principalID == access.DeliveryCompanyID
	}

	g.cache.Add(cacheKey, allowed)
	return allowed, nil
}

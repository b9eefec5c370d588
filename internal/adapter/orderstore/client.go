package orderstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/forkline/order-events-service/config"
	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/service"
	"github.com/sony/gobreaker"
)

// Client reads from the external order store over its internal HTTP API.
// A circuit breaker keeps a misbehaving store from eating every caller's
// per-business timeout budget.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func New(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.Backend.BaseURL,
		http: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "order-store",
			Timeout: 15 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
	}
}

type ordersPage struct {
	Orders  []model.OrderPreview `json:"orders"`
	HasMore bool                 `json:"hasMore"`
}

// QueryOrdersSince implements service.OrderStore.
func (c *Client) QueryOrdersSince(ctx context.Context, businessID string, since time.Time, limit int) ([]model.OrderPreview, bool, error) {
	endpoint := fmt.Sprintf("%s/internal/businesses/%s/orders?since=%s&limit=%d",
		c.baseURL,
		url.PathEscape(businessID),
		url.QueryEscape(since.UTC().Format(time.RFC3339Nano)),
		limit,
	)

	var page ordersPage
	if err := c.getJSON(ctx, endpoint, &page); err != nil {
		return nil, false, err
	}
	return page.Orders, page.HasMore, nil
}

// GetOrderAccess resolves which parties an order belongs to. Used by the
// authorization gate for ORDER channel joins.
func (c *Client) GetOrderAccess(ctx context.Context, orderID string) (model.OrderAccess, error) {
	endpoint := fmt.Sprintf("%s/internal/orders/%s/access", c.baseURL, url.PathEscape(orderID))

	var access model.OrderAccess
	if err := c.getJSON(ctx, endpoint, &access); err != nil {
		return model.OrderAccess{}, err
	}
	return access, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		res, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
		}
		return nil, json.NewDecoder(res.Body).Decode(out)
	})
	if err != nil {
		return classify(ctx, err)
	}
	return nil
}

func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", service.ErrStoreTimeout, err)
	}
	return fmt.Errorf("%w: %v", service.ErrStoreUnavailable, err)
}

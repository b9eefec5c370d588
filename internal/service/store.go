package service

import (
	"context"
	"errors"
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
)

// OrderStore is the external system of record. This service only reads from
// it; writes happen in the order-mutation services upstream.
type OrderStore interface {
	// QueryOrdersSince returns up to limit orders of the business created
	// strictly after since, ascending by creation time, plus a flag
	// telling whether more orders exist past the page.
	QueryOrdersSince(ctx context.Context, businessID string, since time.Time, limit int) ([]model.OrderPreview, bool, error)
}

var (
	// ErrStoreUnavailable marks a store that refused or failed the query.
	ErrStoreUnavailable = errors.New("order store unavailable")

	// ErrStoreTimeout marks a store that did not answer within the
	// per-business deadline.
	ErrStoreTimeout = errors.New("order store timeout")
)

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Reconciler answers "what changed for business B since time T?" against the
// order store. It is the pull half of delivery: live dispatch is best-effort,
// catch-up fills the gaps after a disconnect.
type Reconciler interface {
	Reconcile(ctx context.Context, req model.SyncRequest) model.SyncResult
}

type ReconcileConfig struct {
	PageSize        int
	DefaultLookback time.Duration
	MaxParallel     int
	BusinessTimeout time.Duration
}

func (c *ReconcileConfig) withDefaults() {
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	if c.DefaultLookback <= 0 {
		c.DefaultLookback = 24 * time.Hour
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = 8
	}
	if c.BusinessTimeout <= 0 {
		c.BusinessTimeout = 5 * time.Second
	}
}

type ReconcileService struct {
	store  OrderStore
	cfg    ReconcileConfig
	tracer trace.Tracer
}

func NewReconcileService(store OrderStore, cfg ReconcileConfig) *ReconcileService {
	cfg.withDefaults()
	return &ReconcileService{
		store:  store,
		cfg:    cfg,
		tracer: otel.Tracer("order-events-service/reconcile"),
	}
}

// Reconcile resolves every business independently: bounded parallelism, a
// per-business deadline, and per-business error entries. One tenant's store
// trouble never blocks another's sync. The call is read-only and idempotent.
func (s *ReconcileService) Reconcile(ctx context.Context, req model.SyncRequest) model.SyncResult {
	ctx, span := s.tracer.Start(ctx, "reconcile", trace.WithAttributes(
		attribute.Int("sync.businesses", len(req.SyncTimes)),
	))
	defer span.End()

	result := model.SyncResult{
		Businesses: make(map[string]model.BusinessSync, len(req.SyncTimes)),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.MaxParallel)

	for businessID, lastSync := range req.SyncTimes {
		g.Go(func() error {
			entry := s.reconcileBusiness(ctx, businessID, lastSync)

			mu.Lock()
			result.Businesses[businessID] = entry
			mu.Unlock()
			return nil
		})
	}

	// Workers report failures inside their entries, never as group errors.
	_ = g.Wait()
	return result
}

func (s *ReconcileService) reconcileBusiness(ctx context.Context, businessID string, lastSync *time.Time) model.BusinessSync {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.BusinessTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "reconcile.business", trace.WithAttributes(
		attribute.String("business.id", businessID),
	))
	defer span.End()

	since := s.sinceFor(lastSync)

	orders, hasMore, err := s.store.QueryOrdersSince(ctx, businessID, since, s.cfg.PageSize)
	if err != nil {
		return model.BusinessSync{Err: classifyStoreErr(err)}
	}

	return model.BusinessSync{
		Orders:    orders,
		Truncated: hasMore,
	}
}

// sinceFor applies the bounded default lookback for first-time syncs.
// "Beginning of time" is never queried.
func (s *ReconcileService) sinceFor(lastSync *time.Time) time.Time {
	if lastSync != nil {
		return *lastSync
	}
	return time.Now().Add(-s.cfg.DefaultLookback)
}

func classifyStoreErr(err error) *model.SyncError {
	code := model.SyncStoreUnavailable
	if errors.Is(err, ErrStoreTimeout) || errors.Is(err, context.DeadlineExceeded) {
		code = model.SyncStoreTimeout
	}
	return &model.SyncError{
		Code:    code,
		Message: err.Error(),
	}
}

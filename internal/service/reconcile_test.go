package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/stretchr/testify/require"
)

type storeCall struct {
	BusinessID string
	Since      time.Time
	Limit      int
}

type fakeStore struct {
	mu      sync.Mutex
	calls   []storeCall
	orders  map[string][]model.OrderPreview
	hasMore map[string]bool
	errs    map[string]error
	block   map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:  make(map[string][]model.OrderPreview),
		hasMore: make(map[string]bool),
		errs:    make(map[string]error),
		block:   make(map[string]bool),
	}
}

func (s *fakeStore) QueryOrdersSince(ctx context.Context, businessID string, since time.Time, limit int) ([]model.OrderPreview, bool, error) {
	s.mu.Lock()
	s.calls = append(s.calls, storeCall{BusinessID: businessID, Since: since, Limit: limit})
	blocked := s.block[businessID]
	s.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return nil, false, ctx.Err()
	}
	if err := s.errs[businessID]; err != nil {
		return nil, false, err
	}
	return s.orders[businessID], s.hasMore[businessID], nil
}

func (s *fakeStore) callFor(t *testing.T, businessID string) storeCall {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, call := range s.calls {
		if call.BusinessID == businessID {
			return call
		}
	}
	t.Fatalf("no store call for business %s", businessID)
	return storeCall{}
}

func syncTime(t time.Time) *time.Time { return &t }

func TestReconcile_ReturnsOrdersPerBusiness(t *testing.T) {
	req := require.New(t)
	store := newFakeStore()

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store.orders["B1"] = []model.OrderPreview{
		{ID: "O1", BusinessID: "B1", CreatedAt: t0.Add(time.Minute)},
		{ID: "O2", BusinessID: "B1", CreatedAt: t0.Add(2 * time.Minute)},
	}
	store.hasMore["B2"] = true

	svc := NewReconcileService(store, ReconcileConfig{})
	result := svc.Reconcile(context.Background(), model.SyncRequest{
		SyncTimes: map[string]*time.Time{
			"B1": syncTime(t0),
			"B2": syncTime(t0),
		},
	})

	req.Len(result.Businesses, 2)

	b1 := result.Businesses["B1"]
	req.Nil(b1.Err)
	req.Len(b1.Orders, 2)
	req.Equal("O1", b1.Orders[0].ID)
	req.False(b1.Truncated)

	b2 := result.Businesses["B2"]
	req.Nil(b2.Err)
	req.Empty(b2.Orders)
	req.True(b2.Truncated)

	call := store.callFor(t, "B1")
	req.Equal(t0, call.Since)
	req.Equal(50, call.Limit)
}

func TestReconcile_DefaultLookbackWhenNeverSynced(t *testing.T) {
	req := require.New(t)
	store := newFakeStore()

	svc := NewReconcileService(store, ReconcileConfig{DefaultLookback: time.Hour})
	start := time.Now()
	svc.Reconcile(context.Background(), model.SyncRequest{
		SyncTimes: map[string]*time.Time{"B1": nil},
	})

	call := store.callFor(t, "B1")
	req.WithinDuration(start.Add(-time.Hour), call.Since, time.Second)
}

func TestReconcile_IsolatesFailingBusiness(t *testing.T) {
	req := require.New(t)
	store := newFakeStore()

	t0 := time.Now().Add(-time.Hour)
	store.orders["B1"] = []model.OrderPreview{{ID: "O1", BusinessID: "B1"}}
	store.errs["B2"] = ErrStoreUnavailable

	svc := NewReconcileService(store, ReconcileConfig{})
	result := svc.Reconcile(context.Background(), model.SyncRequest{
		SyncTimes: map[string]*time.Time{
			"B1": syncTime(t0),
			"B2": syncTime(t0),
		},
	})

	req.Nil(result.Businesses["B1"].Err)
	req.Len(result.Businesses["B1"].Orders, 1)

	b2 := result.Businesses["B2"]
	req.NotNil(b2.Err)
	req.Equal(model.SyncStoreUnavailable, b2.Err.Code)
	req.Empty(b2.Orders)
}

func TestReconcile_SlowStoreReportsTimeout(t *testing.T) {
	req := require.New(t)
	store := newFakeStore()
	store.block["B1"] = true
	store.orders["B2"] = []model.OrderPreview{{ID: "O9", BusinessID: "B2"}}

	t0 := time.Now().Add(-time.Hour)
	svc := NewReconcileService(store, ReconcileConfig{BusinessTimeout: 20 * time.Millisecond})
	result := svc.Reconcile(context.Background(), model.SyncRequest{
		SyncTimes: map[string]*time.Time{
			"B1": syncTime(t0),
			"B2": syncTime(t0),
		},
	})

	b1 := result.Businesses["B1"]
	req.NotNil(b1.Err)
	req.Equal(model.SyncStoreTimeout, b1.Err.Code)

	// The stuck tenant does not take the healthy one down with it.
	req.Nil(result.Businesses["B2"].Err)
	req.Len(result.Businesses["B2"].Orders, 1)
}

func TestReconcile_MovedSyncTimeNarrowsTheWindow(t *testing.T) {
	req := require.New(t)
	store := newFakeStore()

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(30 * time.Minute)

	svc := NewReconcileService(store, ReconcileConfig{})

	svc.Reconcile(context.Background(), model.SyncRequest{
		SyncTimes: map[string]*time.Time{"B1": syncTime(t0)},
	})
	svc.Reconcile(context.Background(), model.SyncRequest{
		SyncTimes: map[string]*time.Time{"B1": syncTime(t1)},
	})

	store.mu.Lock()
	defer store.mu.Unlock()
	req.Len(store.calls, 2)
	req.Equal(t0, store.calls[0].Since)
	req.Equal(t1, store.calls[1].Since)
	req.True(store.calls[1].Since.After(store.calls[0].Since))
}

func TestReconcileMiddleware_DelegatesAndLogs(t *testing.T) {
	req := require.New(t)
	store := newFakeStore()
	store.orders["B1"] = []model.OrderPreview{{ID: "O1", BusinessID: "B1"}}

	inner := NewReconcileService(store, ReconcileConfig{})
	mw := &ReconcileMiddleware{Next: inner, Logger: discardLogger()}

	t0 := time.Now().Add(-time.Hour)
	result := mw.Reconcile(context.Background(), model.SyncRequest{
		SyncTimes: map[string]*time.Time{"B1": syncTime(t0)},
	})

	req.Len(result.Businesses["B1"].Orders, 1)
}

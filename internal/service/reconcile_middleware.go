package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
)

// ReconcileMiddleware decorates a Reconciler with outcome logging, keeping
// observability out of the business logic.
type ReconcileMiddleware struct {
	Next   Reconciler
	Logger *slog.Logger
}

func (m *ReconcileMiddleware) Reconcile(ctx context.Context, req model.SyncRequest) model.SyncResult {
	start := time.Now()

	res := m.Next.Reconcile(ctx, req)

	var orders, failed int
	for _, entry := range res.Businesses {
		orders += len(entry.Orders)
		if entry.Err != nil {
			failed++
		}
	}

	if failed > 0 {
		m.Logger.Warn("reconcile completed with partial failures",
			"businesses", len(req.SyncTimes),
			"failed", failed,
			"orders", orders,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	} else {
		m.Logger.Debug("reconcile completed",
			"businesses", len(req.SyncTimes),
			"orders", orders,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	return res
}

package httpapi

import (
	"github.com/forkline/order-events-service/infra/server/httpserver"
	"github.com/forkline/order-events-service/internal/handler/lp"
	"github.com/forkline/order-events-service/internal/handler/ws"
	"go.uber.org/fx"
)

var Module = fx.Module("http-handlers",
	fx.Provide(
		ws.NewWSHandler,
		lp.NewLPHandler,
		NewSyncHandler,
		NewStatsHandler,
	),
	fx.Invoke(RegisterRoutes),
)

func RegisterRoutes(
	server *httpserver.Server,
	wsHandler *ws.WSHandler,
	lpHandler *lp.LPHandler,
	syncHandler *SyncHandler,
	statsHandler *StatsHandler,
) {
	r := server.Router
	r.Handle("/ws", wsHandler)
	r.Get("/poll", lpHandler.Poll)
	r.Post("/api/sync", syncHandler.ServeHTTP)
	r.Get("/api/stats", statsHandler.ServeHTTP)
}

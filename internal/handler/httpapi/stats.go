package httpapi

import (
	"net/http"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/domain/registry"
	"github.com/forkline/order-events-service/internal/service"
)

type statsResponse struct {
	Hub      model.HubStats      `json:"hub"`
	Dispatch model.DispatchStats `json:"dispatch"`
}

type StatsHandler struct {
	hub        registry.Hubber
	dispatcher service.Dispatcher
}

func NewStatsHandler(hub registry.Hubber, dispatcher service.Dispatcher) *StatsHandler {
	return &StatsHandler{hub: hub, dispatcher: dispatcher}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, statsResponse{
		Hub:      h.hub.Stats(),
		Dispatch: h.dispatcher.Stats(),
	})
}

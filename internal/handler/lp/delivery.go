package lp

import (
	"errors"
	"net/http"
	"time"

	"github.com/forkline/order-events-service/internal/domain/event"
	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/domain/registry"
	lpmarshaller "github.com/forkline/order-events-service/internal/handler/marshaller/lp"
	"github.com/forkline/order-events-service/internal/service"
)

const (
	pollTimeout = 30 * time.Second
	batchLimit  = 15
)

type LPHandler struct {
	deliverer service.Deliverer
}

func NewLPHandler(deliverer service.Deliverer) *LPHandler {
	return &LPHandler{deliverer: deliverer}
}

// Poll holds the request open until an event arrives on one of the requested
// channels or the poll window closes. The subscription lives only for the
// duration of this request; catch-up between polls is the sync endpoint's job.
func (h *LPHandler) Poll(w http.ResponseWriter, r *http.Request) {
	role := model.Role(r.Header.Get("X-Role"))
	principalID := r.Header.Get("X-Principal-Id")
	if !role.Valid() || principalID == "" {
		http.Error(w, "missing or invalid identity", http.StatusBadRequest)
		return
	}

	keys, err := parseChannels(r.URL.Query()["channel"])
	if err != nil || len(keys) == 0 {
		http.Error(w, "invalid channel selection", http.StatusBadRequest)
		return
	}

	conn, err := h.deliverer.Subscribe(r.Context(), role, principalID)
	if err != nil {
		http.Error(w, "failed to subscribe", http.StatusInternalServerError)
		return
	}
	defer h.deliverer.Unsubscribe(conn.GetID())

	for _, key := range keys {
		if err := h.deliverer.Join(r.Context(), conn.GetID(), key); err != nil {
			if errors.Is(err, registry.ErrJoinDenied) {
				http.Error(w, "join denied: "+key.String(), http.StatusForbidden)
				return
			}
			http.Error(w, "join failed", http.StatusInternalServerError)
			return
		}
	}

	var events []event.Eventer

	select {
	case <-r.Context().Done():
		return

	case <-time.After(pollTimeout):
		w.WriteHeader(http.StatusNoContent)
		return

	case ev := <-conn.Recv():
		events = append(events, ev)

		// Drain whatever else is buffered so one response carries a batch.
	drainLoop:
		for range batchLimit {
			select {
			case nextEv := <-conn.Recv():
				events = append(events, nextEv)
			default:
				break drainLoop
			}
		}
	}

	data, err := lpmarshaller.MarshallEvents(events)
	if err != nil {
		http.Error(w, "marshal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseChannels(raw []string) ([]model.ChannelKey, error) {
	keys := make([]model.ChannelKey, 0, len(raw))
	for _, s := range raw {
		key, err := model.ParseChannelKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

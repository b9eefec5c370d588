package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/forkline/order-events-service/internal/domain/registry"
	wsmarshaller "github.com/forkline/order-events-service/internal/handler/marshaller/ws"
	"github.com/forkline/order-events-service/internal/service"
	"github.com/gorilla/websocket"
)

// ControlFrame is what clients send to manage channel membership.
type ControlFrame struct {
	Action  string `json:"action"` // "join" | "leave"
	Channel struct {
		Kind    string `json:"kind"`
		ScopeID string `json:"scopeId"`
	} `json:"channel"`
}

// Ack answers every control frame.
type Ack struct {
	Ok     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

type WSHandler struct {
	logger    *slog.Logger
	deliverer service.Deliverer
	upgrader  websocket.Upgrader
}

func NewWSHandler(logger *slog.Logger, deliverer service.Deliverer) *WSHandler {
	return &WSHandler{
		logger:    logger,
		deliverer: deliverer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Security: adjust for production
		},
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Identity comes pre-validated from the platform edge.
	role := model.Role(r.Header.Get("X-Role"))
	principalID := r.Header.Get("X-Principal-Id")
	if !role.Valid() || principalID == "" {
		http.Error(w, "missing or invalid identity", http.StatusBadRequest)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	conn, err := h.deliverer.Subscribe(r.Context(), role, principalID)
	if err != nil {
		return
	}
	defer h.deliverer.Unsubscribe(conn.GetID())

	h.logger.Info("ws opened",
		"conn_id", conn.GetID(),
		"role", role,
		"principal_id", principalID,
	)

	// gorilla connections allow one writer at a time; acks from the read
	// loop and events from the pump share this guard.
	writer := &lockedWriter{ws: ws}

	go h.readLoop(r.Context(), ws, writer, conn)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-conn.Done():
			return
		case ev := <-conn.Recv():
			data, err := wsmarshaller.MarshallDeliveryEvent(ev)
			if err != nil {
				h.logger.Error("failed to marshal ws event", "error", err)
				continue
			}
			if err := writer.WriteText(data); err != nil {
				h.logger.Warn("ws send failed", "error", err)
				return
			}
		}
	}
}

// readLoop serves join/leave frames until the client goes away, then tears
// the registration down so the event pump stops too.
func (h *WSHandler) readLoop(ctx context.Context, ws *websocket.Conn, writer *lockedWriter, conn registry.Connector) {
	defer h.deliverer.Unsubscribe(conn.GetID())

	for {
		var frame ControlFrame
		if err := ws.ReadJSON(&frame); err != nil {
			return
		}

		ack := h.handleFrame(ctx, conn, frame)
		if err := writer.WriteJSON(ack); err != nil {
			return
		}
	}
}

func (h *WSHandler) handleFrame(ctx context.Context, conn registry.Connector, frame ControlFrame) Ack {
	key := model.NewChannelKey(model.ChannelKind(frame.Channel.Kind), frame.Channel.ScopeID)

	switch frame.Action {
	case "join":
		if err := h.deliverer.Join(ctx, conn.GetID(), key); err != nil {
			return Ack{Ok: false, Reason: joinReason(err)}
		}
		return Ack{Ok: true}
	case "leave":
		h.deliverer.Leave(conn.GetID(), key)
		return Ack{Ok: true}
	default:
		return Ack{Ok: false, Reason: "unknown_action"}
	}
}

func joinReason(err error) string {
	switch {
	case errors.Is(err, registry.ErrJoinDenied):
		return "join_denied"
	case errors.Is(err, registry.ErrInvalidChannelKind):
		return "invalid_channel_kind"
	case errors.Is(err, registry.ErrConnectionNotFound):
		return "connection_not_found"
	default:
		return "internal_error"
	}
}

type lockedWriter struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (w *lockedWriter) WriteText(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ws.WriteMessage(websocket.TextMessage, data)
}

func (w *lockedWriter) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ws.WriteJSON(v)
}

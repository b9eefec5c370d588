package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/forkline/order-events-service/internal/domain/model"
	"github.com/google/uuid"
)

// Gate answers "may this connection join this channel?". Policy lives behind
// this interface; the hub is mechanism only.
type Gate interface {
	Check(ctx context.Context, role model.Role, principalID string, key model.ChannelKey) (bool, error)
}

// Hubber is the gateway for session lifecycle and channel membership.
type Hubber interface {
	Register(conn Connector) error
	Join(ctx context.Context, connID uuid.UUID, key model.ChannelKey) error
	Leave(connID uuid.UUID, key model.ChannelKey)
	Unregister(connID uuid.UUID)
	MembersOf(key model.ChannelKey) []Connector
	Channels(connID uuid.UUID) []model.ChannelKey
	Stats() model.HubStats
	Shutdown()
}

// member pairs a connector with its forward index of joined channels.
type member struct {
	conn     Connector
	channels map[model.ChannelKey]struct{}
}

// Hub tracks connections and their channel memberships behind a single
// coarse lock. Both indices mutate together, so the forward and reverse
// views can never disagree. All operations are O(1) amortized.
type Hub struct {
	mu        sync.RWMutex
	members   map[uuid.UUID]*member
	channels  map[model.ChannelKey]map[uuid.UUID]Connector
	gate      Gate
	startedAt time.Time
}

func NewHub(gate Gate) *Hub {
	return &Hub{
		members:   make(map[uuid.UUID]*member),
		channels:  make(map[model.ChannelKey]map[uuid.UUID]Connector),
		gate:      gate,
		startedAt: time.Now(),
	}
}

func (h *Hub) Register(conn Connector) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.members[conn.GetID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateConnection, conn.GetID())
	}

	h.members[conn.GetID()] = &member{
		conn:     conn,
		channels: make(map[model.ChannelKey]struct{}),
	}
	return nil
}

// Join admits the connection into a channel after consulting the gate.
// The gate call is I/O and runs outside the lock; the membership is
// re-validated afterwards because the connection may have unregistered
// while the check was in flight.
func (h *Hub) Join(ctx context.Context, connID uuid.UUID, key model.ChannelKey) error {
	if !key.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidChannelKind, key.Kind)
	}

	h.mu.RLock()
	m, ok := h.members[connID]
	h.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, connID)
	}

	allowed, err := h.gate.Check(ctx, m.conn.GetRole(), m.conn.GetPrincipalID(), key)
	if err != nil {
		// Fail closed: an unreachable gate never grants access.
		return fmt.Errorf("%w: gate check failed: %v", ErrJoinDenied, err)
	}
	if !allowed {
		return fmt.Errorf("%w: %s may not join %s", ErrJoinDenied, m.conn.GetRole(), key)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok = h.members[connID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, connID)
	}

	m.channels[key] = struct{}{}
	group, ok := h.channels[key]
	if !ok {
		group = make(map[uuid.UUID]Connector)
		h.channels[key] = group
	}
	group[connID] = m.conn
	return nil
}

// Leave removes one membership. Leaving a channel the connection is not a
// member of is a no-op, not an error.
func (h *Hub) Leave(connID uuid.UUID, key model.ChannelKey) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.members[connID]
	if !ok {
		return
	}
	delete(m.channels, key)
	h.dropFromChannel(connID, key)
}

// Unregister removes the connection and all its memberships in one atomic
// step, then closes the connector. Idempotent.
func (h *Hub) Unregister(connID uuid.UUID) {
	h.mu.Lock()
	m, ok := h.members[connID]
	if ok {
		for key := range m.channels {
			h.dropFromChannel(connID, key)
		}
		delete(h.members, connID)
	}
	h.mu.Unlock()

	if ok {
		m.conn.Close()
	}
}

// dropFromChannel must be called with the write lock held. Channels are
// reclaimed as soon as their last member leaves.
func (h *Hub) dropFromChannel(connID uuid.UUID, key model.ChannelKey) {
	group, ok := h.channels[key]
	if !ok {
		return
	}
	delete(group, connID)
	if len(group) == 0 {
		delete(h.channels, key)
	}
}

// MembersOf returns a point-in-time snapshot of the channel's members.
// Mutations after the snapshot do not affect an in-flight dispatch.
func (h *Hub) MembersOf(key model.ChannelKey) []Connector {
	h.mu.RLock()
	defer h.mu.RUnlock()

	group := h.channels[key]
	if len(group) == 0 {
		return nil
	}
	out := make([]Connector, 0, len(group))
	for _, conn := range group {
		out = append(out, conn)
	}
	return out
}

// Channels returns the channel keys the connection currently belongs to.
func (h *Hub) Channels(connID uuid.UUID) []model.ChannelKey {
	h.mu.RLock()
	defer h.mu.RUnlock()

	m, ok := h.members[connID]
	if !ok {
		return nil
	}
	out := make([]model.ChannelKey, 0, len(m.channels))
	for key := range m.channels {
		out = append(out, key)
	}
	return out
}

func (h *Hub) Stats() model.HubStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	byKind := make(map[model.ChannelKind]int)
	for key := range h.channels {
		byKind[key.Kind]++
	}
	return model.HubStats{
		TotalConnections: len(h.members),
		TotalChannels:    len(h.channels),
		ChannelsByKind:   byKind,
		Uptime:           time.Since(h.startedAt),
	}
}

// Shutdown closes every live connection and clears both indices.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	members := h.members
	h.members = make(map[uuid.UUID]*member)
	h.channels = make(map[model.ChannelKey]map[uuid.UUID]Connector)
	h.mu.Unlock()

	for _, m := range members {
		m.conn.Close()
	}
}

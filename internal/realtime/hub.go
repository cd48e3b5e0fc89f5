// Package realtime fans change events out to the websocket connections of
// each user.
package realtime

import (
	"encoding/json"
	"sync"

	"vitaltrack/fitness-app/internal/logger"
	"vitaltrack/fitness-app/internal/metrics"

	"github.com/rs/zerolog"
)

// Message is the frame written to clients.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks joined connections per user. It implements
// service.EventPublisher.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[*conn]struct{}
	log   zerolog.Logger
}

func NewHub() *Hub {
	return &Hub{
		users: make(map[string]map[*conn]struct{}),
		log:   logger.WithComponent("realtime"),
	}
}

// Emit queues the event on every connection of userID. A connection whose
// buffer is full misses the event.
func (h *Hub) Emit(userID, event string, payload any) {
	frame, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		h.log.Error().Err(err).Str("event", event).Msg("Failed to encode realtime event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.users[userID] {
		select {
		case c.send <- frame:
			metrics.RealtimeEventsTotal.WithLabelValues(event).Inc()
		default:
			metrics.RealtimeEventsDropped.Inc()
			h.log.Warn().
				Str("user_id", userID).
				Str("conn_id", c.id).
				Str("event", event).
				Msg("Realtime buffer full, dropping event")
		}
	}
}

// Connections returns the number of joined connections of userID.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func (h *Hub) join(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.users[c.userID]
	if !ok {
		set = make(map[*conn]struct{})
		h.users[c.userID] = set
	}
	set[c] = struct{}{}
	metrics.RealtimeConnections.Inc()
	h.log.Debug().Str("user_id", c.userID).Str("conn_id", c.id).Msg("Realtime connection joined")
}

// leave removes c and closes its send queue. It is safe to call twice.
func (h *Hub) leave(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.users[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.users, c.userID)
	}
	close(c.send)
	metrics.RealtimeConnections.Dec()
	h.log.Debug().Str("user_id", c.userID).Str("conn_id", c.id).Msg("Realtime connection left")
}

// Close disconnects every joined connection.
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*conn
	for _, set := range h.users {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range all {
		c.ws.Close()
	}
}

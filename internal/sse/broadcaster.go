// Package sse fans session events out to server-sent-event subscribers.
package sse

import (
	"encoding/json"
	"log/slog"
	"maps"
	"sync"
	"time"
)

// Hub tracks subscribers per session
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[chan Message]struct{} // sessionID -> subscribers
	timeout time.Duration
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]map[chan Message]struct{}),
		timeout: SendTimeout,
		logger:  logger,
	}
}

// Subscribe registers a client for a session's events. The returned
// function unsubscribes it and is safe to call more than once.
func (h *Hub) Subscribe(sessionID string) (<-chan Message, func()) {
	client := make(chan Message, BufferSize)

	h.mu.Lock()
	subs, ok := h.clients[sessionID]
	if !ok {
		subs = make(map[chan Message]struct{})
		h.clients[sessionID] = subs
	}
	if len(subs) > 0 {
		h.logger.Debug("additional SSE subscriber", "session_id", sessionID, "existing", len(subs))
	}
	subs[client] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return client, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.clients[sessionID], client)
			if len(h.clients[sessionID]) == 0 {
				delete(h.clients, sessionID)
			}
		})
	}
}

// ClientCount returns the number of subscribers of a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// Publish sends an event to every subscriber of the session. The payload is
// encoded as JSON; slow clients are skipped after the send timeout.
func (h *Hub) Publish(sessionID, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("encode SSE payload", "session_id", sessionID, "event", event, "error", err)
		return
	}

	// Collect all client channels while holding the lock
	h.mu.RLock()
	clients := maps.Clone(h.clients[sessionID])
	h.mu.RUnlock()
	if len(clients) == 0 {
		return
	}

	// Send messages WITHOUT holding the lock
	msg := Message{Event: event, Data: string(data)}
	sent := 0
	for client := range clients {
		timer := time.NewTimer(h.timeout)
		select {
		case client <- msg:
			sent++
		case <-timer.C:
			h.logger.Debug("SSE send timed out", "session_id", sessionID, "event", event)
		}
		timer.Stop()
	}
	h.logger.Debug("SSE broadcast", "session_id", sessionID, "event", event, "sent", sent, "clients", len(clients))
}

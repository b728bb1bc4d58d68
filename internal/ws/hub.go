package ws

import (
	"context"
	"encoding/json"
	"sync"

	"parishlink/internal/logger"
)

// Event is a single push frame. Type is one of "new_message",
// "typing", "presence", "notification".
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub tracks connected clients by user id. A user may hold several
// connections (tabs, devices); pushes go to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes connect/disconnect events until ctx is cancelled, then
// closes every client send channel so the write pumps drain and exit.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.clients {
		for client := range conns {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.userID] == nil {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
	logger.Debug("ws client connected", "user_id", client.userID)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; ok {
		delete(conns, client)
		close(client.send)
	}
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	logger.Debug("ws client disconnected", "user_id", client.userID)
}

// SendToUser pushes an event to every connection of one user. Slow
// consumers get dropped rather than blocking the hub.
func (h *Hub) SendToUser(userID string, event Event) {
	raw, err := json.Marshal(event)
	if err != nil {
		logger.WithError(err).Warn("ws event marshal failed", "type", event.Type)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- raw:
		default:
			logger.Warn("ws client send buffer full, dropping", "user_id", userID)
		}
	}
}

// IsConnected reports whether the user has at least one open socket.
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

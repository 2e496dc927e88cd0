package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// Event is a message fanned out to clients subscribed to a topic
type Event struct {
	Topic   string      `json:"topic"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub maintains the set of active clients grouped by topic
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Event

	mu      sync.RWMutex
	clients map[string]*Client            // client ID -> client
	topics  map[string]map[string]*Client // topic -> client ID -> client

	log *zap.Logger
}

// NewHub creates a new Hub
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		Register:   make(chan *Client, 16),
		Unregister: make(chan *Client, 16),
		Broadcast:  make(chan Event, 64),
		clients:    make(map[string]*Client),
		topics:     make(map[string]map[string]*Client),
		log:        log,
	}
}

// Run processes register/unregister/broadcast events until the hub is stopped
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case event := <-h.Broadcast:
			h.broadcast(event)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// A reconnect with the same ID replaces the old connection
	if existing, ok := h.clients[client.ID]; ok {
		existing.close()
		h.detach(existing)
	}

	h.clients[client.ID] = client
	subs, ok := h.topics[client.Topic]
	if !ok {
		subs = make(map[string]*Client)
		h.topics[client.Topic] = subs
	}
	subs[client.ID] = client

	h.log.Debug("websocket client registered",
		zap.String("client_id", client.ID),
		zap.String("topic", client.Topic))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[client.ID]; !ok || current != client {
		return
	}
	client.close()
	h.detach(client)
}

// detach removes bookkeeping for a client, caller holds the lock
func (h *Hub) detach(client *Client) {
	delete(h.clients, client.ID)
	if subs, ok := h.topics[client.Topic]; ok {
		delete(subs, client.ID)
		if len(subs) == 0 {
			delete(h.topics, client.Topic)
		}
	}
}

func (h *Hub) broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.topics[event.Topic] {
		select {
		case client.send <- event:
		default:
			// Slow consumer, drop the event rather than block the hub
			h.log.Warn("websocket send buffer full, dropping event",
				zap.String("client_id", client.ID),
				zap.String("topic", event.Topic))
		}
	}
}

// Publish queues an event for broadcast without blocking the caller
func (h *Hub) Publish(event Event) {
	select {
	case h.Broadcast <- event:
	default:
		h.log.Warn("websocket broadcast buffer full, dropping event",
			zap.String("topic", event.Topic))
	}
}

// GetClient returns the client registered under the given ID
func (h *Hub) GetClient(id string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[id]
	return client, ok
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

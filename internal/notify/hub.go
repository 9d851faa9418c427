package notify

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Client is one connected event stream for a user. A user may hold several
// clients (multiple tabs/devices).
type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

// Hub fans membership events out to connected clients by user id.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	publish    chan *userMessage
	mu         sync.RWMutex
}

type userMessage struct {
	UserID uuid.UUID
	Event  Event
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan *userMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()

		case msg := <-h.publish:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Event)
			for _, client := range h.clients {
				if client.UserID != msg.UserID {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish queues an event for every client of the target user. Drops the
// event when the publish buffer is full.
func (h *Hub) Publish(userID uuid.UUID, event Event) bool {
	select {
	case h.publish <- &userMessage{UserID: userID, Event: event}:
		return true
	default:
		return false
	}
}

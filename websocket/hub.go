// websocket/hub.go
package websocket

import (
	"context"
	"sync"
	"time"

	import_services "contacts-backend/imports/services"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeImportCompleted MessageType = "IMPORT_COMPLETED"
	MessageTypeError           MessageType = "ERROR"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type Client struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Conn           *websocket.Conn
	Hub            *Hub
	Send           chan WebSocketMessage
}

// Hub fans messages out to the connected members of an organization.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToOrganization sends a message to every client of the organization.
// Clients whose buffer is full are dropped.
func (h *Hub) BroadcastToOrganization(organizationID uuid.UUID, message WebSocketMessage) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for client := range h.clients {
		if client.OrganizationID != organizationID {
			continue
		}
		select {
		case client.Send <- message:
			delivered++
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
	return delivered
}

// ContactsImported pushes the finished import summary to the organization.
func (h *Hub) ContactsImported(_ context.Context, organizationID uuid.UUID, report *import_services.ImportReport) {
	h.BroadcastToOrganization(organizationID, WebSocketMessage{
		Type: MessageTypeImportCompleted,
		Payload: map[string]interface{}{
			"summary": report.Summary,
			"errors":  len(report.Errors),
		},
		Timestamp: time.Now(),
	})
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

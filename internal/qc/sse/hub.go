package sse

import (
	"encoding/json"
	"log"
	"sync"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// GlobalHub is the singleton SSE Hub instance
var GlobalHub = NewHub()

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("[SSE] Client registered: id=%s user=%s (total: %d)", client.ID, client.UserID, len(h.clients))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		log.Printf("[SSE] Client unregistered: id=%s (total: %d)", clientID, len(h.clients))
	}
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			log.Printf("[SSE] Client %s buffer full, skipping event", client.ID)
		}
	}
}

type defectEvent struct {
	DefectID     string `json:"defect_id"`
	SerialNumber string `json:"serial_number"`
	Category     string `json:"category,omitempty"`
	Severity     string `json:"severity,omitempty"`
}

// PublishDefectOpened notifies live quality dashboards about a new or
// reopened defect.
func PublishDefectOpened(defectID, serialNumber, category, severity string) {
	data, _ := json.Marshal(defectEvent{
		DefectID:     defectID,
		SerialNumber: serialNumber,
		Category:     category,
		Severity:     severity,
	})
	GlobalHub.Broadcast(Event{
		EventType: "defect_opened",
		Data:      string(data),
	})
	log.Printf("[SSE] Published defect_opened: defect=%s serial=%s severity=%s", defectID, serialNumber, severity)
}

// PublishDefectClosed notifies clients that a defect was auto-closed after
// its answer turned positive.
func PublishDefectClosed(defectID, serialNumber string) {
	data, _ := json.Marshal(defectEvent{DefectID: defectID, SerialNumber: serialNumber})
	GlobalHub.Broadcast(Event{
		EventType: "defect_closed",
		Data:      string(data),
	})
	log.Printf("[SSE] Published defect_closed: defect=%s serial=%s", defectID, serialNumber)
}

package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"bemyeyes/internal/logger"
)

// Event is the summary pushed to connected clients after each pipeline run.
type Event struct {
	Success        bool    `json:"success"`
	Caption        string  `json:"caption,omitempty"`
	TotalObjects   int     `json:"total_objects"`
	ProcessingTime float64 `json:"processing_time"`
}

// HubService fans detection events out to connected websocket clients.
type HubService struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	logger     *logger.Logger
}

func NewHubService(log *logger.Logger) *HubService {
	return &HubService{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		logger:     log,
	}
}

// Run processes register/unregister/broadcast traffic. Meant to run in its
// own goroutine for the process lifetime.
func (h *HubService) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Event client connected. Total: %d", total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Info("Event client disconnected. Total: %d", total)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.Error("Error sending event: %v", err)
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a client connection to the hub.
func (h *HubService) Register(client *websocket.Conn) {
	h.register <- client
}

// Unregister removes a client connection from the hub.
func (h *HubService) Unregister(client *websocket.Conn) {
	h.unregister <- client
}

// BroadcastEvent queues an event for delivery to all clients. When the queue
// is full the event is dropped; event delivery must never stall a request.
func (h *HubService) BroadcastEvent(e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		h.logger.Error("Failed to encode event: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warning("Event queue full, dropping event")
	}
}

// ClientCount returns the number of connected clients.
func (h *HubService) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

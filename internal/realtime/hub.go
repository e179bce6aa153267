// Package realtime fans weather alert events out to websocket subscribers.
package realtime

import (
	"sync"
	"time"

	"github.com/agromanage/agromanage/internal/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 512
)

const (
	EventConnected = "connected"
	EventAlert     = "alert"
)

type Event struct {
	Type    string               `json:"type"`
	Message string               `json:"message,omitempty"`
	Alert   *models.WeatherAlert `json:"alert,omitempty"`
}

func AlertEvent(alert models.WeatherAlert) Event {
	return Event{Type: EventAlert, Message: "Weather alert issued", Alert: &alert}
}

// Client serialises writes to one connection; gorilla allows a single
// concurrent writer.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *Client) WritePing() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		logger:  logger,
	}
}

func (h *Hub) Register(conn *websocket.Conn) *Client {
	client := &Client{conn: conn}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if ok {
		client.conn.Close()
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Broadcast sends the event to every subscriber in parallel and drops
// connections that fail. It returns once every write has finished or hit
// its deadline.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	var wg sync.WaitGroup

	for _, client := range clients {
		wg.Add(1)
		go func(client *Client) {
			defer wg.Done()

			if err := client.WriteJSON(event); err != nil {
				h.logger.Warn("Failed to broadcast to client", zap.String("event", event.Type), zap.Error(err))
				h.Unregister(client)
			}
		}(client)
	}

	wg.Wait()
}

package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"stationdesk/services/console/internal/notify"
)

// Message types pushed to console clients.
const (
	MsgTypeInit         = "init"
	MsgTypeNotification = "notification"
)

// Message is the websocket envelope.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client is one connected console tab.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans notifications out to every connected client.
type Hub struct {
	logger     *zap.Logger
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex

	initData func() interface{}
}

// NewHub creates a hub. initData, when set, is sent to every new client.
func NewHub(logger *zap.Logger, initData func() interface{}) *Hub {
	return &Hub{
		logger:     logger.Named("ws"),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		initData:   initData,
	}
}

// Run serves register/unregister/broadcast until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("client connected", zap.Int("total_clients", total))
			h.sendInit(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug("client disconnected", zap.Int("total_clients", total))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// slow consumer
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) sendInit(client *Client) {
	if h.initData == nil {
		return
	}
	data, err := json.Marshal(Message{Type: MsgTypeInit, Data: h.initData()})
	if err != nil {
		h.logger.Error("failed to marshal init data", zap.Error(err))
		return
	}
	select {
	case client.send <- data:
	default:
		h.logger.Warn("client buffer full, init data dropped")
	}
}

// BroadcastMessage queues a typed message for every client. It never blocks.
func (h *Hub) BroadcastMessage(msgType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal broadcast message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("broadcast queue full, message dropped", zap.String("type", msgType))
	}
}

// Deliver implements notify.Sink.
func (h *Hub) Deliver(t notify.Toast) {
	h.BroadcastMessage(MsgTypeNotification, t)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

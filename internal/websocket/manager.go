// ===============================
// internal/websocket/manager.go - Banner push hub
// ===============================

package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"luemtv/internal/metrics"
	"luemtv/internal/models"
)

// ===============================
// MESSAGE TYPES
// ===============================

type MessageType string

const (
	TypeConnectionEstablished MessageType = "connection_established"
	TypeBannerState           MessageType = "banner_state"
	TypePing                  MessageType = "ping"
	TypePong                  MessageType = "pong"
	TypeError                 MessageType = "error"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

type Message struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ===============================
// CLIENT CONNECTION
// ===============================

type Client struct {
	ID   string
	Conn *websocket.Conn
	Hub  *Hub
	Send chan []byte
}

func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Hub:  hub,
		Send: make(chan []byte, sendBuffer),
	}
}

// ReadPump only services pings and detects disconnects; subscribers never
// send anything else.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Debug().Err(err).Str("client", c.ID).Msg("Banner socket closed unexpectedly")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.Hub.sendTo(c, Message{Type: TypeError, Data: "malformed message"})
			continue
		}
		if msg.Type == TypePing {
			c.Hub.sendTo(c, Message{Type: TypePong})
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ===============================
// HUB
// ===============================

// Hub fans banner state changes out to every connected subscriber. A
// subscriber whose buffer is full is dropped rather than stalling the rest.
type Hub struct {
	clients   map[string]*Client
	register  chan *Client
	leave     chan *Client
	broadcast chan []byte
	stop      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
	mutex     sync.RWMutex
	logger    zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		register:  make(chan *Client),
		leave:     make(chan *Client),
		broadcast: make(chan []byte, 64),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.With().Str("component", "banner_hub").Logger(),
	}
}

// Run processes registrations and broadcasts until Stop.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client.ID] = client
			h.mutex.Unlock()
			metrics.BannerSubscribers.Inc()
			h.logger.Debug().Str("client", client.ID).Msg("Banner subscriber connected")

		case client := <-h.leave:
			h.remove(client)

		case message := <-h.broadcast:
			h.mutex.RLock()
			var slow []*Client
			for _, client := range h.clients {
				select {
				case client.Send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.mutex.RUnlock()
			for _, client := range slow {
				h.logger.Warn().Str("client", client.ID).Msg("Banner subscriber too slow, dropping")
				h.remove(client)
			}

		case <-h.stop:
			h.mutex.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
				metrics.BannerSubscribers.Dec()
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Stop disconnects every subscriber and ends Run. Safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
		<-h.done
	})
}

// Serve registers conn, sends it initial and pumps until it disconnects.
// It blocks for the lifetime of the connection.
func (h *Hub) Serve(conn *websocket.Conn, initial models.BannerState) {
	client := NewClient(conn, h)

	// Queued before registration so they precede any broadcast.
	for _, msg := range []Message{
		{Type: TypeConnectionEstablished, Data: map[string]string{"clientId": client.ID}},
		{Type: TypeBannerState, Data: initial},
	} {
		if payload, err := encode(msg); err == nil {
			client.Send <- payload
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump()
}

// PublishBanner implements services.BannerPublisher.
func (h *Hub) PublishBanner(state models.BannerState) {
	payload, err := encode(Message{Type: TypeBannerState, Data: state})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode banner state")
		return
	}

	select {
	case h.broadcast <- payload:
	case <-h.done:
	default:
		h.logger.Warn().Msg("Banner broadcast queue full, skipping update")
	}
}

// ClientCount reports connected subscribers.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.leave <- c:
	case <-h.done:
	}
}

// remove must only run on the Run goroutine.
func (h *Hub) remove(c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)
	close(c.Send)
	metrics.BannerSubscribers.Dec()
	h.logger.Debug().Str("client", c.ID).Msg("Banner subscriber disconnected")
}

// sendTo queues msg for one client without blocking.
func (h *Hub) sendTo(c *Client, msg Message) {
	payload, err := encode(msg)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode message")
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}

func encode(msg Message) ([]byte, error) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return json.Marshal(msg)
}

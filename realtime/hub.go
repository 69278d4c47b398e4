// Package realtime pushes store changes to connected browsers over
// websockets.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"egov-portal/metrics"
	"egov-portal/models"
	"egov-portal/state"
	"egov-portal/views"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var ErrHubClosed = errors.New("realtime hub is closed")

type MessageType string

const (
	MessageTypeAction MessageType = "action"
	MessageTypeToast  MessageType = "toast"
	MessageTypeHello  MessageType = "hello"
)

// Message is one frame sent to clients.
type Message struct {
	Type      MessageType   `json:"type"`
	Action    string        `json:"action,omitempty"`
	Screen    *views.Screen `json:"screen,omitempty"`
	Toast     *models.Toast `json:"toast,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type outbound struct {
	// profileID limits delivery to one profile's connections; empty means
	// everyone.
	profileID string
	data      []byte
}

type Client struct {
	ID        string
	ProfileID string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
}

// Hub fans store events out to websocket clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

func NewHub(logger *zap.Logger, allowedOrigin string) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowedOrigin == "*" || origin == "" || origin == allowedOrigin
			},
		},
	}
}

// Run serves registrations and broadcasts until ctx ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			metrics.RealtimeClients.Set(0)
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			metrics.RealtimeClients.Inc()
			h.logger.Debug("websocket client connected", zap.String("client_id", c.ID), zap.String("profile_id", c.ProfileID))

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.broadcast:
			h.mu.RLock()
			var slow []*Client
			for c := range h.clients {
				if msg.profileID != "" && c.ProfileID != msg.profileID {
					continue
				}
				select {
				case c.send <- msg.data:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.remove(c)
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.RealtimeClients.Dec()
		h.logger.Debug("websocket client disconnected", zap.String("client_id", c.ID))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Listener is a state.Listener that announces every action with the
// resulting screen, and delivers new toasts to the signed-in profile.
func (h *Hub) Listener(action state.Action, prev, next state.State) {
	screen := views.Resolve(next)
	h.enqueue("", Message{Type: MessageTypeAction, Action: action.Kind(), Screen: &screen})

	if next.Profile == nil {
		return
	}
	seen := make(map[string]struct{}, len(prev.Toasts))
	for _, t := range prev.Toasts {
		seen[t.ID] = struct{}{}
	}
	for _, t := range next.Toasts {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		toast := t
		h.enqueue(next.Profile.ID, Message{Type: MessageTypeToast, Toast: &toast})
	}
}

func (h *Hub) enqueue(profileID string, msg Message) {
	msg.Timestamp = time.Now().UTC()
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal realtime message", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- outbound{profileID: profileID, data: data}:
	default:
		h.logger.Warn("realtime broadcast queue full, dropping message", zap.String("type", string(msg.Type)))
	}
}

// ServeWS upgrades the request and attaches the connection to profileID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, profileID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
	}
	hello, _ := json.Marshal(Message{Type: MessageTypeHello, Timestamp: time.Now().UTC()})
	c.send <- hello

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return ErrHubClosed
	}
	go c.writePump()
	go c.readPump()
	return nil
}

// readPump only services control frames; clients never send data.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/brochure/internal/flip"
	"github.com/ayusman/brochure/internal/logger"
	"github.com/ayusman/brochure/internal/mesh"
	"github.com/ayusman/brochure/internal/nav"
)

// Message types sent to frame clients.
const (
	MessageFrame = "frame"
	MessageState = "state"
)

const (
	sendBuffer   = 64
	writeWait    = 5 * time.Second
	pongWait     = 30 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxInboundKB = 4
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Frame is the wire form of one tick of a page turn.
type Frame struct {
	Page      int       `json:"page"`
	Direction string    `json:"direction"`
	Rotation  float32   `json:"rotation"`
	Bend      float32   `json:"bend"`
	Depth     float32   `json:"depth"`
	Flipped   bool      `json:"flipped"`
	Progress  float32   `json:"progress"`
	Done      bool      `json:"done"`
	Positions []float32 `json:"positions"`
}

// NewFrame converts a controller update to its wire form.
func NewFrame(u flip.Update) Frame {
	return Frame{
		Page:      u.Page,
		Direction: u.Direction.String(),
		Rotation:  u.Rotation,
		Bend:      u.Bend,
		Depth:     u.Depth,
		Flipped:   u.Flipped,
		Progress:  u.Progress,
		Done:      u.Done,
		Positions: mesh.Flatten(u.Positions),
	}
}

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frame updates out to websocket clients and forwards navigation
// requests they send back to a Navigator.
type Hub struct {
	navigator Navigator
	log       *zap.Logger

	mu      sync.RWMutex
	clients map[string]*client
	closed  bool
}

// NewHub creates a Hub. navigator may be nil, in which case inbound
// messages are ignored.
func NewHub(navigator Navigator) *Hub {
	return &Hub{
		navigator: navigator,
		log:       logger.Named("hub"),
		clients:   make(map[string]*client),
	}
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c.id] = c
	h.mu.Unlock()
	h.log.Debug("client connected", zap.String("client", c.id))

	go h.writePump(c)
	h.readPump(c)
}

// Broadcast sends a message of the given type to every client. Clients whose
// send buffer is full miss the message.
func (h *Hub) Broadcast(kind string, payload any) error {
	data, err := json.Marshal(envelope{Type: kind, Data: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.log.Debug("client lagging, message dropped", zap.String("client", c.id), zap.String("type", kind))
		}
	}
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		close(c.send)
		delete(h.clients, c.id)
		h.log.Debug("client disconnected", zap.String("client", c.id))
	}
}

// readPump forwards navigation messages until the connection fails.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundKB << 10)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg navigateRequest
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("client read failed", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		if h.navigator == nil {
			continue
		}
		req, err := msg.parse(nav.SourceButton)
		if err != nil {
			h.log.Debug("ignoring client message", zap.String("client", c.id), zap.Error(err))
			continue
		}
		h.navigator.Submit(req)
	}
}

// writePump drains the client's send buffer and keeps the connection alive.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

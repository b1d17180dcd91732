package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cryptovault/trading-api/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// tickMessage is the envelope pushed to every connected client on a market
// tick.
type tickMessage struct {
	Channel string             `json:"channel"`
	Data    []types.MarketData `json:"data"`
}

// Hub maintains active websocket connections and broadcasts market data
// snapshots to them. Clients are read-only consumers; inbound frames are
// drained and discarded.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
}

// NewHub creates a new market data hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run drives the hub's register/unregister/broadcast loop until the context
// is cancelled.
func (h *Hub) Run(ctx context.Context) {
	logger := log.With().Str("component", "market_stream").Logger()
	logger.Info().Msg("starting market stream hub")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down market stream hub")
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Debug().Int("clients", total).Msg("stream client connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Debug().Int("clients", total).Msg("stream client disconnected")

		case message := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow consumer, drop the frame rather than block the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastSnapshot pushes a market data snapshot to all connected clients.
// Safe to call from the engine's tick callback.
func (h *Hub) BroadcastSnapshot(snapshot []types.MarketData) {
	message, err := json.Marshal(tickMessage{Channel: "market_data", Data: snapshot})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal market snapshot")
		return
	}

	select {
	case h.broadcast <- message:
	default:
		log.Warn().Msg("market stream broadcast buffer full, dropping tick")
	}
}

// ClientCount returns the number of connected stream clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Handler upgrades GET requests to websocket connections fed by the hub.
func (h *Hub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		cl := &client{hub: h, conn: conn, send: make(chan []byte, 64)}
		h.register <- cl

		go cl.writePump()
		go cl.readPump()
	}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump drains inbound frames so close/pong control messages are
// processed, then unregisters on error.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards hub messages to the connection and keeps it alive with
// periodic pings.
func (c *client) writePump() {
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

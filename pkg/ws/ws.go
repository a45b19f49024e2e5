// Package ws pushes order events to connected admin dashboards over
// WebSocket using gorilla/websocket.
//
//	hub := ws.NewHub()
//	go hub.Run(ctx)
//	events, cancel := bus.Subscribe(64)
//	go hub.Feed(ctx, events)
//
//	r.Get("/admin/orders/live", "admin.orders.live", func(w http.ResponseWriter, r *http.Request) {
//	    hub.Upgrade(w, r)
//	})
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/delish/pkg/event"
	"github.com/shashiranjanraj/delish/pkg/logger"
	"github.com/shashiranjanraj/delish/pkg/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

// ─── Client ───────────────────────────────────────────────────────────────────

// Client is one connected dashboard. The feed is one-way; anything the
// client sends is read and discarded so pongs and close frames are handled.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
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
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// ─── Hub ──────────────────────────────────────────────────────────────────────

// Hub tracks connected clients and fans broadcasts out to them. A client
// whose buffer is full is dropped rather than stalling the others.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. Call Run in a goroutine before upgrading clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SetCheckOrigin replaces the allow-all origin check.
func (h *Hub) SetCheckOrigin(fn func(r *http.Request) bool) {
	h.upgrader.CheckOrigin = fn
}

// Run is the hub loop. It returns when ctx is done, closing every client.
// A hub is not restartable.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Add(1)
			metrics.LiveClients.Inc()
			logger.Info("ws: client connected", "total", len(h.clients))

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				logger.Info("ws: client disconnected", "total", len(h.clients))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
	metrics.LiveClients.Dec()
}

// Broadcast queues msg for every connected client. It never blocks; when
// the hub is backed up the message is dropped.
func (h *Hub) Broadcast(msg []byte) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		return false
	}
}

// Feed forwards every event from events to the clients as JSON until ctx is
// done or events is closed.
func (h *Hub) Feed(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				logger.Warn("ws: encode event", "event", e.Name, "error", err)
				continue
			}
			if !h.Broadcast(data) {
				logger.Warn("ws: broadcast queue full", "event", e.Name)
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

// ─── Upgrade ─────────────────────────────────────────────────────────────────

// Upgrade switches the request to a WebSocket and registers the client.
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithCtx(r.Context()).Error("ws: upgrade failed", "error", err)
		return
	}
	c := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

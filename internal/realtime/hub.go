package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to a peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from a peer.
	pongWait = 60 * time.Second
	// Send pings to a peer with this period; must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Per-connection outbound buffer.
	sendBuffer = 32
)

// Hub pushes every notification published to the store out to connected
// websocket clients. One Hub serves all connections; each connection gets a
// dedicated writer goroutine so a slow peer cannot stall the broadcast loop.
type Hub struct {
	store    *Store
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*hubConn]struct{}
}

type hubConn struct {
	ws   *websocket.Conn
	send chan domain.Notification
}

// NewHub creates a hub bound to the given store. allowedOrigins restricts the
// websocket handshake; an empty list allows same-host requests only.
func NewHub(store *Store, logger *slog.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		store:  store,
		logger: logger,
		conns:  make(map[*hubConn]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

// Run subscribes to the store and broadcasts until ctx is cancelled.
// Call it in its own goroutine from main.
func (h *Hub) Run(ctx context.Context) {
	events, cancel := h.store.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case n, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(n)
		}
	}
}

func (h *Hub) broadcast(n domain.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		select {
		case c.send <- n:
		default:
			// Peer is not draining its buffer; drop the connection.
			h.removeLocked(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		h.removeLocked(c)
	}
}

func (h *Hub) removeLocked(c *hubConn) {
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
}

func (h *Hub) remove(c *hubConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// ConnCount returns the number of connected clients.
func (h *Hub) ConnCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// ServeHTTP upgrades the request to a websocket connection and registers it
// with the hub. It is mounted on /ws.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &hubConn{ws: ws, send: make(chan domain.Notification, sendBuffer)}
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

// writePump drains the connection's send channel to the peer and keeps the
// connection alive with pings.
func (h *Hub) writePump(c *hubConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case n, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(n); err != nil {
				h.logger.Debug("websocket write failed", slog.String("error", err.Error()))
				h.remove(c)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// readPump discards inbound frames (the push channel is one-way) and detects
// peer disconnects.
func (h *Hub) readPump(c *hubConn) {
	defer func() {
		h.remove(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(512)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed unexpectedly", slog.String("error", err.Error()))
			}
			return
		}
	}
}

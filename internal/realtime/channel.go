package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/gorilla/websocket"
)

// ChannelState is the connection state of a Channel.
type ChannelState int32

const (
	StateDisconnected ChannelState = iota
	StateConnecting
	StateConnected
)

func (s ChannelState) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	default:
		return "DISCONNECTED"
	}
}

// DefaultReconnectDelay is the fixed wait between a close and the next dial.
const DefaultReconnectDelay = 5 * time.Second

// Channel is a reconnecting websocket listener that feeds inbound notification
// messages into a Store. Its lifecycle is owned by the context passed to Run:
// cancelling the context stops the retry loop and closes the active connection,
// so no reconnect timer can outlive its owner.
//
// Every close schedules exactly one reconnect attempt after a fixed delay.
// Read errors are only logged; the ensuing close drives the reconnect.
type Channel struct {
	url    string
	store  *Store
	logger *slog.Logger
	delay  time.Duration
	dialer *websocket.Dialer

	mu    sync.RWMutex
	state ChannelState
	conn  *websocket.Conn
}

// ChannelOption configures a Channel.
type ChannelOption func(*Channel)

// WithReconnectDelay overrides the fixed reconnect delay.
func WithReconnectDelay(d time.Duration) ChannelOption {
	return func(c *Channel) { c.delay = d }
}

// WithDialer overrides the websocket dialer (used in tests).
func WithDialer(d *websocket.Dialer) ChannelOption {
	return func(c *Channel) { c.dialer = d }
}

// NewChannel creates a channel that connects to url and publishes inbound
// messages to store.
func NewChannel(url string, store *Store, logger *slog.Logger, opts ...ChannelOption) *Channel {
	c := &Channel{
		url:    url,
		store:  store,
		logger: logger,
		delay:  DefaultReconnectDelay,
		dialer: websocket.DefaultDialer,
		state:  StateDisconnected,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current connection state.
func (c *Channel) State() ChannelState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Channel) setState(s ChannelState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// channelMessage is the inbound wire shape. Unknown fields are ignored.
type channelMessage struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Run connects and listens until ctx is cancelled. Each connection loss is
// followed by one delayed reconnect attempt; dial failures also wait the full
// delay before the next attempt. Run always leaves the channel in the
// Disconnected state when it returns.
func (c *Channel) Run(ctx context.Context) {
	defer c.setState(StateDisconnected)

	for {
		if ctx.Err() != nil {
			return
		}

		c.setState(StateConnecting)
		conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			c.logger.Warn("notification channel dial failed",
				slog.String("url", c.url), slog.String("error", err.Error()))
		} else {
			c.mu.Lock()
			c.conn = conn
			c.state = StateConnected
			c.mu.Unlock()
			c.logger.Info("notification channel connected", slog.String("url", c.url))

			// Close the socket when the owner tears us down so the blocking
			// read below unblocks promptly.
			closed := make(chan struct{})
			go func() {
				select {
				case <-ctx.Done():
					conn.Close()
				case <-closed:
				}
			}()

			c.readLoop(conn)
			close(closed)
			conn.Close()

			c.mu.Lock()
			c.conn = nil
			c.state = StateDisconnected
			c.mu.Unlock()
			c.logger.Info("notification channel disconnected", slog.String("url", c.url))
		}

		// One scheduled reconnect per close, cancelled with the owner.
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.delay):
		}
	}
}

// readLoop consumes messages until the connection errors or closes.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Log only; the close that follows drives the reconnect.
			c.logger.Debug("notification channel read error", slog.String("error", err.Error()))
			return
		}

		var msg channelMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("discarding malformed notification message", slog.String("error", err.Error()))
			continue
		}

		c.store.Publish(domain.Notification{
			Type:    domain.NotificationType(msg.Type),
			Title:   msg.Title,
			Message: msg.Message,
		})
	}
}

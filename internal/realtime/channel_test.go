package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsTestServer accepts websocket connections, optionally sends a payload, then
// closes. It counts how many connections it has accepted.
type wsTestServer struct {
	*httptest.Server
	upgrader websocket.Upgrader
	accepted atomic.Int32
	payload  string
}

func newWSTestServer(payload string) *wsTestServer {
	s := &wsTestServer{payload: payload}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.accepted.Add(1)
		if s.payload != "" {
			conn.WriteMessage(websocket.TextMessage, []byte(s.payload))
		}
		// Give the client a moment to read before closing.
		time.Sleep(50 * time.Millisecond)
		conn.Close()
	}))
	return s
}

func (s *wsTestServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func mustNotification(title, message string) domain.Notification {
	return domain.Notification{Type: domain.NotificationInfo, Title: title, Message: message}
}

func TestChannelDeliversInboundMessagesToStore(t *testing.T) {
	server := newWSTestServer(`{"type":"SUCCESS","title":"Invoice paid","message":"INV-1 settled"}`)
	defer server.Close()

	store := NewStore(0)
	ch := NewChannel(server.wsURL(), store, testLogger(), WithReconnectDelay(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	require.Eventually(t, func() bool {
		return len(store.List()) > 0
	}, 2*time.Second, 10*time.Millisecond, "expected a stored notification")

	n := store.List()[0]
	assert.Equal(t, "Invoice paid", n.Title)
	assert.Equal(t, "INV-1 settled", n.Message)
	assert.False(t, n.Read)
	assert.NotEmpty(t, n.NotificationID, "inbound messages get a synthetic ID")
}

func TestChannelReconnectsAfterClose(t *testing.T) {
	server := newWSTestServer("")
	defer server.Close()

	store := NewStore(0)
	ch := NewChannel(server.wsURL(), store, testLogger(), WithReconnectDelay(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ch.Run(ctx)

	// The server closes every connection, so the channel should keep coming back.
	require.Eventually(t, func() bool {
		return server.accepted.Load() >= 3
	}, 3*time.Second, 10*time.Millisecond, "expected repeated reconnect attempts")
}

func TestChannelTeardownCancelsRetryLoop(t *testing.T) {
	server := newWSTestServer("")
	defer server.Close()

	store := NewStore(0)
	ch := NewChannel(server.wsURL(), store, testLogger(), WithReconnectDelay(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ch.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return server.accepted.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}

	assert.Equal(t, StateDisconnected, ch.State())

	// No further dials after teardown.
	connsAtCancel := server.accepted.Load()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, connsAtCancel, server.accepted.Load(), "retry loop must not outlive its owner")
}

func TestChannelSurvivesDialFailure(t *testing.T) {
	store := NewStore(0)
	// Nothing listens on this address.
	ch := NewChannel("ws://127.0.0.1:1/ws", store, testLogger(), WithReconnectDelay(10*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		ch.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context timeout")
	}
	assert.Equal(t, StateDisconnected, ch.State())
}

func TestHubBroadcastsStorePublishes(t *testing.T) {
	store := NewStore(0)
	hub := NewHub(store, testLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(hub)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return hub.ConnCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	store.Publish(mustNotification("Journal posted", "JE-000001 posted"))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "Journal posted", got.Title)
	assert.Equal(t, "JE-000001 posted", got.Message)
	assert.NotEmpty(t, got.ID)
}

package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/delish/pkg/event"
	"github.com/shashiranjanraj/delish/pkg/ws"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFeedDeliversBusEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe(8)
	defer unsubscribe()
	go hub.Feed(ctx, events)

	srv := httptest.NewServer(http.HandlerFunc(hub.Upgrade))
	defer srv.Close()

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Publish(ctx, event.New("order.placed", map[string]string{"orderId": "AB12CD34"})))

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var got struct {
			Event   string            `json:"event"`
			Payload map[string]string `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "order.placed", got.Event)
		assert.Equal(t, "AB12CD34", got.Payload["orderId"])
	}
}

func TestClientDisconnectUnregisters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.Upgrade))
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestFeedStopsWhenChannelCloses(t *testing.T) {
	hub := ws.NewHub()
	events := make(chan event.Event)
	done := make(chan struct{})
	go func() {
		hub.Feed(context.Background(), events)
		close(done)
	}()
	close(events)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Feed did not return after the channel closed")
	}
}

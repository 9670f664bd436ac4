package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/brochure/internal/flip"
	"github.com/ayusman/brochure/internal/mesh"
	"github.com/ayusman/brochure/internal/nav"
)

func dialHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	waitFor(t, func() bool { return h.Clients() == 1 })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestNewFrame(t *testing.T) {
	u := flip.Update{
		Page:      2,
		Direction: flip.Forward,
		Rotation:  -1.2,
		Bend:      0.9,
		Depth:     0.118,
		Progress:  0.4,
		Positions: []mesh.Vertex{{X: 0, Y: 1, Z: 2}, {X: 3, Y: 4, Z: 5}},
	}

	f := NewFrame(u)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, "forward", f.Direction)
	assert.Equal(t, float32(-1.2), f.Rotation)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5}, f.Positions)
}

func TestHub_Broadcast(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()
	conn := dialHub(t, h)

	require.NoError(t, h.Broadcast(MessageFrame, Frame{Page: 4, Rotation: -0.5}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string `json:"type"`
		Data Frame  `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MessageFrame, msg.Type)
	assert.Equal(t, 4, msg.Data.Page)
	assert.Equal(t, float32(-0.5), msg.Data.Rotation)
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	assert.NoError(t, NewHub(nil).Broadcast(MessageState, State{}))
}

func TestHub_BroadcastMarshalError(t *testing.T) {
	assert.Error(t, NewHub(nil).Broadcast(MessageState, make(chan int)))
}

func TestHub_InboundNavigation(t *testing.T) {
	navigator := &fakeNavigator{}
	h := NewHub(navigator)
	defer h.Close()
	conn := dialHub(t, h)

	messages := []string{
		`{"intent": "next"}`,
		`{"intent": "bogus"}`,
		`{"key": "ArrowLeft"}`,
	}
	for _, m := range messages {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(m)))
	}

	waitFor(t, func() bool { return len(navigator.Requests()) == 2 })
	assert.Equal(t, []nav.Request{
		{Intent: nav.Advance, Source: nav.SourceButton},
		{Intent: nav.Retreat, Source: nav.SourceKey},
	}, navigator.Requests())
}

func TestHub_Disconnect(t *testing.T) {
	h := NewHub(nil)
	defer h.Close()
	conn := dialHub(t, h)

	conn.Close()
	waitFor(t, func() bool { return h.Clients() == 0 })
}

func TestHub_Close(t *testing.T) {
	h := NewHub(nil)
	conn := dialHub(t, h)

	h.Close()
	assert.Zero(t, h.Clients())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "connection should be closed")

	// Broadcasting after close is a no-op.
	assert.NoError(t, h.Broadcast(MessageState, json.RawMessage(`{}`)))
}

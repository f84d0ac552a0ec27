package server

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireEvent struct {
	Type  string            `json:"type"`
	Width float64           `json:"width"`
	Items []json.RawMessage `json:"items"`
	Error string            `json:"error"`

	raw map[string]json.RawMessage
}

// listen serves srv on a random local port until the test ends
func listen(t *testing.T, srv *Server) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = srv.App().Listener(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })
	return ln.Addr().String()
}

func readEvent(t *testing.T, conn *websocket.Conn) wireEvent {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	mt, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, mt)

	var ev wireEvent
	require.NoError(t, json.Unmarshal(raw, &ev))
	require.NoError(t, json.Unmarshal(raw, &ev.raw))
	return ev
}

// activeSessions reads /api/stats, -1 on any failure
func activeSessions(addr string) int {
	resp, err := http.Get("http://" + addr + "/api/stats")
	if err != nil {
		return -1
	}
	defer resp.Body.Close()

	var body struct {
		ActiveCanvasSessions int `json:"activeCanvasSessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return -1
	}
	return body.ActiveCanvasSessions
}

func TestMoodboardSocket_Session(t *testing.T) {
	addr := listen(t, newTestServer(t))

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws/moodboard", nil)
	require.NoError(t, err)

	// initial state comes unprompted, with an explicit empty item list
	ev := readEvent(t, conn)
	assert.Equal(t, "state", ev.Type)
	assert.Equal(t, 600.0, ev.Width)
	assert.JSONEq(t, `[]`, string(ev.raw["items"]))

	require.Eventually(t, func() bool { return activeSessions(addr) == 1 }, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":`)))
	ev = readEvent(t, conn)
	assert.Equal(t, "error", ev.Type)
	assert.Equal(t, "malformed command", ev.Error)

	// binary frames are skipped without a reply; the next reply belongs to the add
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{0x01, 0x02}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"add","kind":"color","content":"#ffffff"}`)))
	ev = readEvent(t, conn)
	assert.Equal(t, "state", ev.Type)
	assert.Len(t, ev.Items, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"add","kind":"video","content":"x"}`)))
	ev = readEvent(t, conn)
	assert.Equal(t, "error", ev.Type)
	assert.NotEmpty(t, ev.Error)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return activeSessions(addr) == 0 }, 2*time.Second, 20*time.Millisecond)
}

// internal/handlers/server_test.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatbridge/internal/auth"
	"floatbridge/internal/game"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	auth.Init()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	s := NewServer(logger, nil)
	ts := httptest.NewServer(RoomWSHandler(logger, s))
	t.Cleanup(ts.Close)
	return s, ts
}

func dialWS(ctx context.Context, t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		Subprotocols: []string{"bridge"},
	})
	require.NoError(t, err)
	return c
}

func writeAction(ctx context.Context, t *testing.T, c *websocket.Conn, action map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(action)
	require.NoError(t, err)
	require.NoError(t, c.Write(ctx, websocket.MessageText, data))
}

// readUntil drains events until one of the wanted type arrives.
func readUntil(ctx context.Context, t *testing.T, c *websocket.Conn, want game.EventType) game.Event {
	t.Helper()
	for {
		_, data, err := c.Read(ctx)
		require.NoError(t, err, "waiting for %s", want)
		var ev game.Event
		require.NoError(t, json.Unmarshal(data, &ev))
		if ev.Type == want {
			return ev
		}
	}
}

func TestJoinerReceivesOwnRoster(t *testing.T) {
	_, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dialWS(ctx, t, ts)
	defer c.Close(websocket.StatusNormalClosure, "")

	// First frame is the open-rooms greeting; the pump must deliver it
	// before anything the following actions produce.
	ev := readUntil(ctx, t, c, game.EventRoomsList)
	assert.NotNil(t, ev.Payload)

	writeAction(ctx, t, c, map[string]interface{}{"type": "create_room", "name": "alice"})
	ev = readUntil(ctx, t, c, game.EventRoomCreated)
	code, ok := ev.Payload["code"].(string)
	require.True(t, ok)
	require.NotEmpty(t, code)

	writeAction(ctx, t, c, map[string]interface{}{"type": "join_room", "code": code, "name": "alice"})
	ev = readUntil(ctx, t, c, game.EventRoomRoster)

	players, ok := ev.Payload["players"].([]interface{})
	require.True(t, ok)
	require.Len(t, players, 1, "join roster must reach the joiner")
	seat, ok := players[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", seat["name"])
}

func TestDisconnectDestroysNeverJoinedRoom(t *testing.T) {
	s, ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := dialWS(ctx, t, ts)
	readUntil(ctx, t, c, game.EventRoomsList)

	writeAction(ctx, t, c, map[string]interface{}{"type": "create_room", "name": "alice"})
	ev := readUntil(ctx, t, c, game.EventRoomCreated)
	code := ev.Payload["code"].(string)

	_, ok := s.Rooms.GetRoom(code)
	require.True(t, ok)

	require.NoError(t, c.Close(websocket.StatusNormalClosure, "done"))

	assert.Eventually(t, func() bool {
		_, ok := s.Rooms.GetRoom(code)
		return !ok
	}, 2*time.Second, 20*time.Millisecond, "created-but-never-joined room must be destroyed on disconnect")
}

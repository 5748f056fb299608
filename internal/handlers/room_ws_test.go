// internal/handlers/room_ws_test.go
package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatbridge/internal/models"
)

func TestParseBid(t *testing.T) {
	// Level 0 or a missing suit is a pass.
	bid, err := parseBid(0, "H")
	require.NoError(t, err)
	assert.Nil(t, bid)

	bid, err = parseBid(3, "")
	require.NoError(t, err)
	assert.Nil(t, bid)

	bid, err = parseBid(3, "nt")
	require.NoError(t, err)
	require.NotNil(t, bid)
	assert.Equal(t, models.Bid{Level: 3, Suit: models.NoTrump}, *bid)

	_, err = parseBid(2, "X")
	assert.Error(t, err)
}

func TestActionMessageDecoding(t *testing.T) {
	raw := `{"type":"bid","code":"abc123","level":2,"suit":"S"}`
	var msg ActionMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	assert.Equal(t, "bid", msg.Type)
	assert.Equal(t, "abc123", msg.Code)
	assert.Equal(t, 2, msg.Level)
	assert.Nil(t, msg.Ready)

	raw = `{"type":"ready","code":"abc123","ready":false}`
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	require.NotNil(t, msg.Ready)
	assert.False(t, *msg.Ready)
}

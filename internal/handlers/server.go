// internal/handlers/server.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"floatbridge/internal/game"
	"floatbridge/internal/history"
)

// writeTimeout bounds a single frame write; a client that cannot drain its
// queue within it has its pending frames dropped one by one.
const writeTimeout = 3 * time.Second

// outboundQueueSize is the per-connection write pump buffer. A full queue
// drops the newest event; the read loop will notice a truly dead peer.
const outboundQueueSize = 64

// Server owns the room registry and the set of live client connections. It
// wires the engine's broadcast callbacks to the websocket transport.
type Server struct {
	Rooms   *game.RoomStore
	History *history.Publisher
	Logger  *logrus.Logger

	mu      sync.Mutex
	conns   map[uuid.UUID]*websocket.Conn
	writers map[*websocket.Conn]chan []byte
}

// NewServer builds the server and hooks the open-rooms directory broadcast.
func NewServer(logger *logrus.Logger, pub *history.Publisher) *Server {
	s := &Server{
		Rooms:   game.NewRoomStore(logger),
		History: pub,
		Logger:  logger,
		conns:   make(map[uuid.UUID]*websocket.Conn),
		writers: make(map[*websocket.Conn]chan []byte),
	}
	s.Rooms.OnDirectoryChange = s.broadcastOpenRooms
	return s
}

// registerConn tracks a connected actor and starts its write pump. Every
// event for this connection goes through the pump, so per-connection
// delivery order matches emission order.
func (s *Server) registerConn(id uuid.UUID, c *websocket.Conn) {
	ch := make(chan []byte, outboundQueueSize)
	go s.writePump(c, ch)

	s.mu.Lock()
	s.conns[id] = c
	s.writers[c] = ch
	s.mu.Unlock()
}

// unregisterConn drops a departed actor and shuts down its write pump.
func (s *Server) unregisterConn(id uuid.UUID) {
	s.mu.Lock()
	c, ok := s.conns[id]
	if ok {
		delete(s.conns, id)
		if ch, ok := s.writers[c]; ok {
			delete(s.writers, c)
			close(ch)
		}
	}
	s.mu.Unlock()
}

// writePump serializes all frame writes for one connection. Exits when the
// queue is closed by unregisterConn.
func (s *Server) writePump(c *websocket.Conn, ch chan []byte) {
	for data := range ch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			s.Logger.Debugf("write pump: %v", err)
		}
	}
}

// broadcastOpenRooms pushes the refreshed directory to every connected
// client, in or out of rooms.
func (s *Server) broadcastOpenRooms(list []game.RoomSummary) {
	ev := game.Event{Type: game.EventRoomsList, Payload: map[string]interface{}{
		"rooms": list,
	}}
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		s.sendEvent(c, ev)
	}
}

// sendEvent marshals an event and queues it on the connection's write pump.
// Never blocks, so it is safe to call while holding a room lock; a saturated
// queue drops the event with a warning.
func (s *Server) sendEvent(c *websocket.Conn, ev game.Event) {
	if c == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		s.Logger.Errorf("failed to marshal event %s: %v", ev.Type, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.writers[c]
	if !ok {
		// Connection already unregistered; nothing to deliver to.
		return
	}
	select {
	case ch <- data:
	default:
		s.Logger.Warnf("dropping event %s: outbound queue full", ev.Type)
	}
}

// bindRoom attaches the transport callbacks to a freshly created room.
// Both broadcast functions are invoked with the room lock held, so they only
// read seat connections and queue the writes without blocking.
func (s *Server) bindRoom(r *game.Room) {
	r.BroadcastFn = func(ev game.Event) {
		for _, p := range r.Players {
			if p != nil && p.Conn != nil {
				s.sendEvent(p.Conn, ev)
			}
		}
	}
	r.BroadcastToPlayerFn = func(playerID uuid.UUID, ev game.Event) {
		for _, p := range r.Players {
			if p != nil && p.ID == playerID {
				s.sendEvent(p.Conn, ev)
				return
			}
		}
	}
	r.OnRoundFinished = func(code string, rec game.RoundRecord) {
		s.History.PublishRound(code, rec)
	}
}

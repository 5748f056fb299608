// internal/game/room_store.go
package game

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"floatbridge/internal/models"
)

// Room codes avoid characters that read ambiguously when typed from a
// screen: no I, O, 0 or 1.
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
)

// RoomSummary is one row of the open-rooms directory.
type RoomSummary struct {
	Code      string `json:"code"`
	Occupancy int    `json:"occupancy"`
}

// RoomStore manages all active rooms in memory. The store mutex guards only
// the map; each room serializes its own state behind its own lock.
type RoomStore struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	logger *logrus.Logger

	// OnDirectoryChange fires whenever the open-rooms directory may have
	// changed (membership or phase). Wired by the transport layer to
	// broadcast the refreshed listing.
	OnDirectoryChange func([]RoomSummary)
}

// NewRoomStore initializes an empty RoomStore.
func NewRoomStore(logger *logrus.Logger) *RoomStore {
	return &RoomStore{
		rooms:  make(map[string]*Room),
		logger: logger,
	}
}

// generateRoomCode draws a fixed-length code from the unambiguous alphabet.
func generateRoomCode() (string, error) {
	out := make([]byte, roomCodeLength)
	for i := range out {
		x, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("room code entropy: %w", err)
		}
		out[i] = roomCodeAlphabet[x.Int64()]
	}
	return string(out), nil
}

// CreateRoom creates an empty Waiting room with the requester as
// host-designate and returns it. The requester still has to join to take a
// seat. Rejects an empty display name.
func (s *RoomStore) CreateRoom(hostID uuid.UUID, name string) (*Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var code string
	for {
		c, err := generateRoomCode()
		if err != nil {
			return nil, err
		}
		if _, taken := s.rooms[c]; !taken {
			code = c
			break
		}
	}

	room := NewRoom(code, hostID, s.logger)
	room.OnOpenStateChange = func() { s.notifyDirectory() }
	s.rooms[code] = room
	s.logger.WithFields(logrus.Fields{"room": code, "host": hostID}).Info("room created")
	s.notifyDirectory()
	return room, nil
}

// GetRoom retrieves a room by code.
func (s *RoomStore) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[strings.ToUpper(code)]
	return r, ok
}

// deleteRoom removes a room from the store.
func (s *RoomStore) deleteRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	s.logger.WithField("room", code).Info("room destroyed")
}

// JoinRoom seats an actor at the next free position and binds their
// connection before the roster goes out, so the join announcement reaches the
// joiner too. Fails if the room is absent or full, if the identity is already
// seated, or if the display name collides case-insensitively with an
// occupant.
func (s *RoomStore) JoinRoom(code string, id uuid.UUID, name string, conn *websocket.Conn) (*Room, *models.Player, error) {
	room, ok := s.GetRoom(code)
	if !ok {
		return nil, nil, fmt.Errorf("room %s not found", code)
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.PlayerCount() >= 4 {
		return nil, nil, fmt.Errorf("room %s is full", code)
	}
	if room.PlayerByID(id) != nil {
		return nil, nil, fmt.Errorf("you already occupy a seat in room %s", code)
	}
	for _, p := range room.Players {
		if p != nil && strings.EqualFold(p.Name, name) {
			return nil, nil, fmt.Errorf("name %q is already taken in room %s", name, code)
		}
	}

	var player *models.Player
	for pos := 0; pos < 4; pos++ {
		if room.Players[pos] == nil {
			player = &models.Player{ID: id, Name: name, Position: pos, Conn: conn}
			room.Players[pos] = player
			break
		}
	}

	room.Logger.WithFields(logrus.Fields{"player": id, "name": name, "position": player.Position}).Info("player joined")
	room.BroadcastRoster()
	s.notifyDirectory()
	return room, player, nil
}

// SetReady updates an occupant's ready flag; unknown identities are ignored.
func (s *RoomStore) SetReady(code string, id uuid.UUID, ready bool) {
	room, ok := s.GetRoom(code)
	if !ok {
		return
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()
	p := room.PlayerByID(id)
	if p == nil {
		return
	}
	p.Ready = ready
	room.BroadcastRoster()
}

// StartGame begins the first deal. Only the host may start, the room must
// hold exactly 4 players and all of them must be ready. turnMs is clamped
// into the allowed window.
func (s *RoomStore) StartGame(code string, requester uuid.UUID, turnMs int64) error {
	room, ok := s.GetRoom(code)
	if !ok {
		return fmt.Errorf("room %s not found", code)
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.HostID != requester {
		return fmt.Errorf("only the host can start the game")
	}
	if room.Phase != PhaseWaiting {
		return fmt.Errorf("game already in progress")
	}
	if room.PlayerCount() != 4 {
		return fmt.Errorf("need exactly 4 players to start")
	}
	for _, p := range room.Players {
		if !p.Ready {
			return fmt.Errorf("not all players are ready")
		}
	}

	room.TurnDuration = ClampTurnDuration(turnMs)
	room.startDeal()
	return nil
}

// Leave removes an actor from their room (disconnect path). An in-flight
// deal is abandoned and the room reset to Waiting; the room is destroyed
// once its last seat empties.
func (s *RoomStore) Leave(code string, id uuid.UUID) {
	room, ok := s.GetRoom(code)
	if !ok {
		return
	}

	room.Mu.Lock()
	p := room.PlayerByID(id)
	if p == nil {
		room.Mu.Unlock()
		return
	}
	room.Players[p.Position] = nil
	p.Conn = nil
	room.Logger.WithFields(logrus.Fields{"player": id, "position": p.Position}).Info("player left")

	wasMidDeal := room.Phase != PhaseWaiting
	if wasMidDeal {
		// ForceReset broadcasts the updated roster itself.
		room.ForceReset()
	}
	empty := room.PlayerCount() == 0
	if empty {
		room.cancelTurnTimer()
	} else if !wasMidDeal {
		room.BroadcastRoster()
	}
	room.Mu.Unlock()

	if empty {
		s.deleteRoom(code)
	}
	s.notifyDirectory()
}

// DestroyIfEmpty removes a room that has no occupants. Used when the creator
// of a never-joined room disconnects, so abandoned rooms cannot pile up in
// the directory.
func (s *RoomStore) DestroyIfEmpty(code string) {
	room, ok := s.GetRoom(code)
	if !ok {
		return
	}

	room.Mu.Lock()
	empty := room.PlayerCount() == 0
	if empty {
		room.cancelTurnTimer()
	}
	room.Mu.Unlock()

	if empty {
		s.deleteRoom(room.Code)
		s.notifyDirectory()
	}
}

// ListOpenRooms returns every Waiting room with a free seat.
func (s *RoomStore) ListOpenRooms() []RoomSummary {
	s.mu.Lock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.Unlock()

	out := []RoomSummary{}
	for _, r := range rooms {
		r.Mu.Lock()
		if r.Phase == PhaseWaiting && r.PlayerCount() < 4 {
			out = append(out, RoomSummary{Code: r.Code, Occupancy: r.PlayerCount()})
		}
		r.Mu.Unlock()
	}
	return out
}

// notifyDirectory recomputes the open-rooms directory and hands it to the
// transport for broadcast. Runs asynchronously so it can be triggered from
// inside a room's critical section without re-entering room locks.
func (s *RoomStore) notifyDirectory() {
	if s.OnDirectoryChange == nil {
		return
	}
	go func() {
		s.OnDirectoryChange(s.ListOpenRooms())
	}()
}

// internal/game/room.go
package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"floatbridge/internal/models"
)

// Phase is the room's position in the deal lifecycle.
type Phase string

const (
	PhaseWaiting Phase = "waiting"
	PhaseBidding Phase = "bidding"
	PhaseCalling Phase = "calling_partner"
	PhasePlaying Phase = "playing"
)

// Turn duration bounds; requests outside the window are clamped and an
// absent/invalid request falls back to the default.
const (
	MinTurnDuration     = 5 * time.Second
	MaxTurnDuration     = 120 * time.Second
	DefaultTurnDuration = 20 * time.Second
)

// TrickPlay is one card laid into the current trick.
type TrickPlay struct {
	Position int         `json:"position"`
	Card     models.Card `json:"card"`
}

// RoundRecord summarizes one completed deal for the scoreboard and archive.
type RoundRecord struct {
	Declarer       int        `json:"declarer"`
	Partner        *int       `json:"partner,omitempty"`
	Bid            models.Bid `json:"bid"`
	DeclarerTricks int        `json:"declarerTricks"`
	DefenderTricks int        `json:"defenderTricks"`
	ContractMade   bool       `json:"contractMade"`
}

// Room holds the entire state for one table. All reads and writes go through
// Mu; the turn timer re-enters through the same lock, so player actions and
// timer fallbacks never interleave.
type Room struct {
	Code   string
	HostID uuid.UUID
	Phase  Phase

	// Players is keyed by seat position; nil marks an empty seat.
	Players [4]*models.Player
	Dealer  int

	TurnDuration time.Duration

	// Bidding state.
	BidTurn           int
	HighestBid        *models.Bid
	HighestBidder     int
	ConsecutivePasses int

	// Contract state. Trump is nil for a no-trump contract; Partner is nil
	// until resolved (and stays nil when the declarer plays solo).
	Declarer        int
	Trump           *models.Suit
	CalledCard      *models.Card
	Partner         *int
	PartnerRevealed bool

	// Trick-play state.
	PlayTurn        int
	CurrentTrick    []TrickPlay
	DeclarerTricks  int
	DefenderTricks  int
	CompletedTricks int
	History         []RoundRecord

	timer    *time.Timer
	timerGen uint64

	Mu sync.Mutex

	// BroadcastFn sends an event to every connected seat. It is invoked with
	// the room lock held and must hand the actual writes off asynchronously.
	BroadcastFn func(ev Event)

	// BroadcastToPlayerFn sends an event to one seat, same contract as above.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev Event)

	// OnRoundFinished receives each completed round record (history archive).
	OnRoundFinished func(code string, rec RoundRecord)

	// OnOpenStateChange fires after any phase flip that affects whether the
	// room shows up in the open-rooms directory.
	OnOpenStateChange func()

	Logger *logrus.Entry
}

// NewRoom builds an empty Waiting room under the given host-designate.
func NewRoom(code string, hostID uuid.UUID, logger *logrus.Logger) *Room {
	return &Room{
		Code:          code,
		HostID:        hostID,
		Phase:         PhaseWaiting,
		TurnDuration:  DefaultTurnDuration,
		HighestBidder: -1,
		Declarer:      -1,
		Logger:        logger.WithField("room", code),
	}
}

// ClampTurnDuration bounds a requested per-turn timeout in milliseconds.
func ClampTurnDuration(ms int64) time.Duration {
	if ms <= 0 {
		return DefaultTurnDuration
	}
	d := time.Duration(ms) * time.Millisecond
	if d < MinTurnDuration {
		return MinTurnDuration
	}
	if d > MaxTurnDuration {
		return MaxTurnDuration
	}
	return d
}

// PlayerCount returns the number of occupied seats. Assumes lock is held.
func (r *Room) PlayerCount() int {
	n := 0
	for _, p := range r.Players {
		if p != nil {
			n++
		}
	}
	return n
}

// PlayerByID resolves a seat by actor identity. Assumes lock is held.
func (r *Room) PlayerByID(id uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

// fireEvent broadcasts to the whole room. Assumes lock is held.
func (r *Room) fireEvent(ev Event) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends to a single actor. Assumes lock is held.
func (r *Room) fireEventToPlayer(playerID uuid.UUID, ev Event) {
	if r.BroadcastToPlayerFn != nil {
		r.BroadcastToPlayerFn(playerID, ev)
	}
}

// rejectAction reports a validation failure to the offending actor only.
// Room state is never touched and the turn is not consumed. Assumes lock is
// held.
func (r *Room) rejectAction(playerID uuid.UUID, reason string) {
	r.Logger.WithFields(logrus.Fields{"player": playerID, "reason": reason}).Debug("action rejected")
	r.fireEventToPlayer(playerID, Event{
		Type:    EventError,
		Payload: map[string]interface{}{"message": reason},
	})
}

// isDeclarerTeam reports whether the seat belongs to the declarer's side.
// Assumes lock is held.
func (r *Room) isDeclarerTeam(position int) bool {
	if position == r.Declarer {
		return true
	}
	return r.Partner != nil && *r.Partner == position
}

// rosterPayload builds the roster snapshot broadcast on membership and ready
// changes. Assumes lock is held.
func (r *Room) rosterPayload() map[string]interface{} {
	seats := make([]map[string]interface{}, 0, 4)
	for pos, p := range r.Players {
		if p == nil {
			continue
		}
		seats = append(seats, map[string]interface{}{
			"id":       p.ID.String(),
			"name":     p.Name,
			"position": pos,
			"ready":    p.Ready,
			"setsWon":  p.SetsWon,
		})
	}
	return map[string]interface{}{
		"code":    r.Code,
		"host":    r.HostID.String(),
		"phase":   string(r.Phase),
		"players": seats,
	}
}

// BroadcastRoster pushes the current roster to everyone. Assumes lock is held.
func (r *Room) BroadcastRoster() {
	r.fireEvent(Event{Type: EventRoomRoster, Payload: r.rosterPayload()})
}

// BroadcastChat relays a free-text message room-wide. Assumes lock is held.
func (r *Room) BroadcastChat(from string, msg string) {
	r.fireEvent(Event{Type: EventChat, Payload: map[string]interface{}{
		"from": from,
		"msg":  msg,
		"ts":   time.Now().Unix(),
	}})
}

// resetToWaiting abandons any in-flight deal and returns the room to the
// Waiting phase. Cumulative sets and the round history survive; hands, bid,
// trick and partner state, ready flags and the live timer do not. Assumes
// lock is held.
func (r *Room) resetToWaiting() {
	r.cancelTurnTimer()

	wasOpen := r.Phase == PhaseWaiting
	r.Phase = PhaseWaiting

	r.HighestBid = nil
	r.HighestBidder = -1
	r.ConsecutivePasses = 0
	r.Declarer = -1
	r.Trump = nil
	r.CalledCard = nil
	r.Partner = nil
	r.PartnerRevealed = false
	r.CurrentTrick = nil
	r.DeclarerTricks = 0
	r.DefenderTricks = 0
	r.CompletedTricks = 0

	for _, p := range r.Players {
		if p == nil {
			continue
		}
		p.Hand = nil
		p.Ready = false
		p.TricksWon = 0
		p.IsDeclarer = false
		p.IsPartner = false
	}

	if !wasOpen && r.OnOpenStateChange != nil {
		r.OnOpenStateChange()
	}
}

// ForceReset is the exported form used when a player departs mid-deal: the
// deal is abandoned, never resumed. Assumes lock is held.
func (r *Room) ForceReset() {
	if r.Phase == PhaseWaiting {
		return
	}
	r.Logger.Warn("deal abandoned, room reset to waiting")
	r.resetToWaiting()
	r.BroadcastRoster()
}

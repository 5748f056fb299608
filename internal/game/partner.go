// internal/game/partner.go
package game

import (
	"github.com/google/uuid"

	"floatbridge/internal/models"
)

// HandleCallCard processes the declarer's partner call. The holder of the
// called card becomes the hidden partner; their identity is only broadcast
// when the card hits the table (see HandlePlayCard). Acquires the room lock.
func (r *Room) HandleCallCard(playerID uuid.UUID, card models.Card) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.PlayerByID(playerID)
	if p == nil {
		return
	}
	if r.Phase != PhaseCalling {
		r.rejectAction(playerID, "no partner call expected now")
		return
	}
	if p.Position != r.Declarer {
		r.rejectAction(playerID, "only the declarer may call a card")
		return
	}
	if !models.ValidRank(card.Rank) || !models.ValidSuit(card.Suit) {
		r.rejectAction(playerID, "invalid card")
		return
	}

	c := card
	r.CalledCard = &c

	// Locate the holder among the other three seats, in position order.
	// Cards are unique, so at most one seat can match; if the declarer
	// holds the card themselves they play solo this deal.
	for pos, seat := range r.Players {
		if pos == r.Declarer {
			continue
		}
		if seat.HasCard(card) {
			partnerPos := pos
			r.Partner = &partnerPos
			seat.IsPartner = true
			r.fireEventToPlayer(seat.ID, Event{Type: EventPrivatePartner, Payload: map[string]interface{}{
				"card": card.String(),
			}})
			break
		}
	}

	if r.Partner == nil {
		r.Logger.Info("called card not held by any opponent, declarer plays solo")
	}

	r.fireEvent(Event{Type: EventCallMade, Payload: map[string]interface{}{
		"card": card.String(),
	}})

	r.Phase = PhasePlaying
	r.PlayTurn = (r.Declarer + 1) % 4
	r.broadcastPlayTurn()
	r.scheduleTurnTimer()
}

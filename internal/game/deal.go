// internal/game/deal.go
package game

import (
	"floatbridge/internal/models"
)

// startDeal shuffles a fresh deck, deals 13 cards to each seat, clears all
// per-deal state and opens the bidding with the seat left of the dealer.
// Assumes lock is held and the room has exactly 4 players.
func (r *Room) startDeal() {
	deck := models.NewDeck()
	models.Shuffle(deck)

	for pos, p := range r.Players {
		hand := make([]models.Card, 13)
		copy(hand, deck[pos*13:(pos+1)*13])
		models.SortHand(hand)
		p.Hand = hand
		p.TricksWon = 0
		p.IsDeclarer = false
		p.IsPartner = false
	}

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

	wasOpen := r.Phase == PhaseWaiting
	r.Phase = PhaseBidding
	r.BidTurn = (r.Dealer + 1) % 4

	r.Logger.WithField("dealer", r.Dealer).Info("deal started")

	r.fireEvent(Event{Type: EventDealStarted, Payload: map[string]interface{}{
		"dealer": r.Dealer,
		"roster": r.rosterPayload(),
	}})
	for _, p := range r.Players {
		r.fireEventToPlayer(p.ID, Event{Type: EventPrivateHand, Payload: map[string]interface{}{
			"cards": encodeHand(p.Hand),
		}})
	}
	r.broadcastBidTurn()
	r.scheduleTurnTimer()

	if wasOpen && r.OnOpenStateChange != nil {
		r.OnOpenStateChange()
	}
}

// encodeHand renders a hand in wire form.
func encodeHand(hand []models.Card) []string {
	out := make([]string, len(hand))
	for i, c := range hand {
		out[i] = c.String()
	}
	return out
}

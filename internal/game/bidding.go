// internal/game/bidding.go
package game

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"floatbridge/internal/models"
)

// HandleBid processes a bid-or-pass from the given actor. A nil bid is a
// pass. Acquires the room lock.
func (r *Room) HandleBid(playerID uuid.UUID, bid *models.Bid) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.PlayerByID(playerID)
	if p == nil {
		return
	}
	if r.Phase != PhaseBidding {
		r.rejectAction(playerID, "no bidding in progress")
		return
	}
	r.handleBid(p.Position, playerID, bid)
}

// handleBid is the shared acceptance path for player-submitted and
// timer-injected bids. Assumes lock is held and position owns the turn claim.
func (r *Room) handleBid(position int, playerID uuid.UUID, bid *models.Bid) {
	if position != r.BidTurn {
		r.rejectAction(playerID, "not your turn to bid")
		return
	}

	if bid != nil {
		if !bid.Valid() {
			r.rejectAction(playerID, "invalid bid")
			return
		}
		if !bid.Beats(r.HighestBid) {
			r.rejectAction(playerID, "bid does not outrank the current highest bid")
			return
		}
	}

	// Action accepted; the running timer for this turn is dead either way.
	r.cancelTurnTimer()

	if bid == nil {
		r.ConsecutivePasses++
	} else {
		b := *bid
		r.HighestBid = &b
		r.HighestBidder = position
		r.ConsecutivePasses = 0
	}

	payload := map[string]interface{}{
		"position":  position,
		"passCount": r.ConsecutivePasses,
	}
	if bid != nil {
		payload["bid"] = bid.String()
	} else {
		payload["pass"] = true
	}
	r.fireEvent(Event{Type: EventBidUpdate, Payload: payload})

	// Four opening passes force a redeal with the dealer advanced by one.
	if bid == nil && r.HighestBid == nil && r.ConsecutivePasses == 4 {
		r.Logger.Info("four passes with no bid, redealing")
		r.Dealer = (r.Dealer + 1) % 4
		r.startDeal()
		return
	}

	// Three passes after any bid close the auction.
	if bid == nil && r.HighestBid != nil && r.ConsecutivePasses == 3 {
		r.endBidding()
		return
	}

	r.BidTurn = (r.BidTurn + 1) % 4
	r.broadcastBidTurn()
	r.scheduleTurnTimer()
}

// endBidding fixes the declarer and contract and moves to partner calling.
// Assumes lock is held.
func (r *Room) endBidding() {
	r.Declarer = r.HighestBidder
	r.Players[r.Declarer].IsDeclarer = true
	r.Trump = r.HighestBid.TrumpSuit()
	r.Phase = PhaseCalling

	r.Logger.WithFields(logrus.Fields{
		"declarer": r.Declarer,
		"bid":      r.HighestBid.String(),
	}).Info("bidding complete")

	trump := ""
	if r.Trump != nil {
		trump = string(*r.Trump)
	}
	r.fireEvent(Event{Type: EventBiddingComplete, Payload: map[string]interface{}{
		"declarer": r.Declarer,
		"bid":      r.HighestBid.String(),
		"trump":    trump,
	}})

	declarerID := r.Players[r.Declarer].ID
	r.fireEventToPlayer(declarerID, Event{Type: EventPrivateCall, Payload: map[string]interface{}{
		"message": "call a card to choose your partner",
	}})
	for pos, p := range r.Players {
		if pos == r.Declarer {
			continue
		}
		r.fireEventToPlayer(p.ID, Event{Type: EventCallWait, Payload: map[string]interface{}{
			"declarer": r.Declarer,
		}})
	}
}

// broadcastBidTurn announces whose bid it is and the timeout window.
// Assumes lock is held.
func (r *Room) broadcastBidTurn() {
	r.fireEvent(Event{Type: EventBidTurn, Payload: map[string]interface{}{
		"position":  r.BidTurn,
		"timeoutMs": r.TurnDuration.Milliseconds(),
	}})
}

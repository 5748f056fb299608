// internal/game/play.go
package game

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"floatbridge/internal/models"
)

// HandlePlayCard processes a card played into the current trick. Acquires
// the room lock.
func (r *Room) HandlePlayCard(playerID uuid.UUID, card models.Card) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.PlayerByID(playerID)
	if p == nil {
		return
	}
	if r.Phase != PhasePlaying {
		r.rejectAction(playerID, "no trick in progress")
		return
	}
	r.handlePlayCard(p.Position, playerID, card)
}

// handlePlayCard is the shared acceptance path for player-submitted and
// timer-injected plays. Assumes lock is held.
func (r *Room) handlePlayCard(position int, playerID uuid.UUID, card models.Card) {
	if position != r.PlayTurn {
		r.rejectAction(playerID, "not your turn to play")
		return
	}
	p := r.Players[position]
	if !p.HasCard(card) {
		r.rejectAction(playerID, "card is not in your hand")
		return
	}

	// Follow-suit: a player holding the lead suit must play it.
	if len(r.CurrentTrick) > 0 {
		leadSuit := r.CurrentTrick[0].Card.Suit
		if card.Suit != leadSuit && p.HasSuit(leadSuit) {
			r.rejectAction(playerID, "must follow the lead suit")
			return
		}
	}

	r.cancelTurnTimer()

	p.RemoveCard(card)
	r.CurrentTrick = append(r.CurrentTrick, TrickPlay{Position: position, Card: card})

	r.fireEvent(Event{Type: EventCardPlayed, Payload: map[string]interface{}{
		"position": position,
		"card":     card.String(),
		"handSize": len(p.Hand),
	}})

	// The hidden partner is revealed the moment a non-declarer plays the
	// exact called card; at most once per deal.
	if r.CalledCard != nil && !r.PartnerRevealed && card == *r.CalledCard && position != r.Declarer {
		r.PartnerRevealed = true
		partnerPos := position
		r.Partner = &partnerPos
		p.IsPartner = true
		r.Logger.WithField("partner", position).Info("partner revealed")
		r.fireEvent(Event{Type: EventPartnerRevealed, Payload: map[string]interface{}{
			"position": position,
		}})
	}

	if len(r.CurrentTrick) < 4 {
		r.PlayTurn = (r.PlayTurn + 1) % 4
		r.broadcastPlayTurn()
		r.scheduleTurnTimer()
		return
	}

	r.resolveTrick()
}

// resolveTrick scores a completed trick, then either continues play from the
// winner or finishes the deal. Assumes lock is held.
func (r *Room) resolveTrick() {
	winner := EvaluateTrick(r.CurrentTrick, r.Trump)
	if r.isDeclarerTeam(winner) {
		r.DeclarerTricks++
	} else {
		r.DefenderTricks++
	}
	r.Players[winner].TricksWon++
	r.CompletedTricks++

	plays := make([]map[string]interface{}, len(r.CurrentTrick))
	for i, tp := range r.CurrentTrick {
		plays[i] = map[string]interface{}{"position": tp.Position, "card": tp.Card.String()}
	}
	counters := make([]int, 4)
	for pos, p := range r.Players {
		counters[pos] = p.TricksWon
	}
	r.fireEvent(Event{Type: EventTrickComplete, Payload: map[string]interface{}{
		"plays":          plays,
		"winner":         winner,
		"declarerTricks": r.DeclarerTricks,
		"defenderTricks": r.DefenderTricks,
		"tricksWon":      counters,
	}})

	r.CurrentTrick = nil
	r.PlayTurn = winner

	if r.handsEmpty() {
		r.finishRound()
		return
	}

	r.broadcastPlayTurn()
	r.scheduleTurnTimer()
}

// handsEmpty reports whether all 13 tricks have been played out. Assumes
// lock is held.
func (r *Room) handsEmpty() bool {
	for _, p := range r.Players {
		if p != nil && len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// finishRound evaluates the contract, credits the winning side a set,
// archives the round and returns the room to Waiting for the next deal.
// Assumes lock is held.
func (r *Room) finishRound() {
	made := r.DeclarerTricks >= r.HighestBid.TricksNeeded()

	for pos, p := range r.Players {
		if r.isDeclarerTeam(pos) == made {
			p.SetsWon++
		}
	}

	rec := RoundRecord{
		Declarer:       r.Declarer,
		Partner:        r.Partner,
		Bid:            *r.HighestBid,
		DeclarerTricks: r.DeclarerTricks,
		DefenderTricks: r.DefenderTricks,
		ContractMade:   made,
	}
	r.History = append(r.History, rec)

	r.Logger.WithFields(logrus.Fields{
		"declarer":       r.Declarer,
		"bid":            r.HighestBid.String(),
		"declarerTricks": r.DeclarerTricks,
		"made":           made,
	}).Info("round finished")

	sets := make([]int, 4)
	for pos, p := range r.Players {
		sets[pos] = p.SetsWon
	}
	payload := map[string]interface{}{
		"declarer":       rec.Declarer,
		"bid":            rec.Bid.String(),
		"declarerTricks": rec.DeclarerTricks,
		"defenderTricks": rec.DefenderTricks,
		"contractMade":   rec.ContractMade,
		"setsWon":        sets,
		"history":        r.History,
	}
	if rec.Partner != nil {
		payload["partner"] = *rec.Partner
	}
	r.fireEvent(Event{Type: EventRoundFinished, Payload: payload})

	if r.OnRoundFinished != nil {
		r.OnRoundFinished(r.Code, rec)
	}

	r.Dealer = (r.Dealer + 1) % 4
	r.resetToWaiting()
	r.BroadcastRoster()
}

// broadcastPlayTurn announces whose play it is and the timeout window.
// Assumes lock is held.
func (r *Room) broadcastPlayTurn() {
	r.fireEvent(Event{Type: EventPlayTurn, Payload: map[string]interface{}{
		"position":  r.PlayTurn,
		"timeoutMs": r.TurnDuration.Milliseconds(),
	}})
}

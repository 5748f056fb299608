// internal/game/timer.go
package game

import (
	"math/rand"
	"time"

	"floatbridge/internal/models"
)

// scheduleTurnTimer arms the single fallback timer for the turn that is
// active right now. Any previously armed timer is cancelled first, so at
// most one live timer exists per room. Assumes lock is held.
func (r *Room) scheduleTurnTimer() {
	r.cancelTurnTimer()
	r.timerGen++
	gen := r.timerGen
	r.timer = time.AfterFunc(r.TurnDuration, func() {
		r.fireTurnTimer(gen)
	})
}

// cancelTurnTimer stops the live timer, if any, and invalidates its
// generation token so an already-fired callback racing for the lock becomes
// a no-op. Assumes lock is held.
func (r *Room) cancelTurnTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.timerGen++
}

// fireTurnTimer injects the deterministic fallback action for the turn that
// was active when the timer was armed: a pass during bidding, a random legal
// card during play. The synthetic action goes through the same acceptance
// path as a player-submitted one.
func (r *Room) fireTurnTimer(gen uint64) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if gen != r.timerGen {
		// Cancelled between firing and acquiring the lock.
		return
	}
	r.timer = nil

	switch r.Phase {
	case PhaseBidding:
		p := r.Players[r.BidTurn]
		if p == nil {
			return
		}
		r.Logger.WithField("position", r.BidTurn).Info("bid turn timed out, passing")
		r.handleBid(r.BidTurn, p.ID, nil)
	case PhasePlaying:
		p := r.Players[r.PlayTurn]
		if p == nil {
			return
		}
		card, ok := randomLegalCard(p.Hand, r.CurrentTrick)
		if !ok {
			return
		}
		r.Logger.WithFields(map[string]interface{}{
			"position": r.PlayTurn,
			"card":     card.String(),
		}).Info("play turn timed out, playing random legal card")
		r.handlePlayCard(r.PlayTurn, p.ID, card)
	}
}

// randomLegalCard picks uniformly among the cards the hand may legally play
// into the trick, honoring follow-suit.
func randomLegalCard(hand []models.Card, trick []TrickPlay) (models.Card, bool) {
	if len(hand) == 0 {
		return models.Card{}, false
	}
	legal := hand
	if len(trick) > 0 {
		leadSuit := trick[0].Card.Suit
		var follow []models.Card
		for _, c := range hand {
			if c.Suit == leadSuit {
				follow = append(follow, c)
			}
		}
		if len(follow) > 0 {
			legal = follow
		}
	}
	return legal[rand.Intn(len(legal))], true
}

// internal/game/trick.go
package game

import (
	"floatbridge/internal/models"
)

// EvaluateTrick returns the position that wins the trick. plays are the four
// entries in play order; trump is nil for a no-trump contract. A trump beats
// any non-trump; otherwise only cards following the lead suit compete, by
// rank. Ties cannot occur because every rank/suit pair is unique.
func EvaluateTrick(plays []TrickPlay, trump *models.Suit) int {
	leadSuit := plays[0].Card.Suit
	best := plays[0]
	for _, p := range plays[1:] {
		if beats(p.Card, best.Card, leadSuit, trump) {
			best = p
		}
	}
	return best.Position
}

// beats reports whether challenger outranks incumbent given the lead and
// optional trump suit.
func beats(challenger, incumbent models.Card, leadSuit models.Suit, trump *models.Suit) bool {
	if trump != nil {
		cTrump := challenger.Suit == *trump
		iTrump := incumbent.Suit == *trump
		if cTrump && !iTrump {
			return true
		}
		if !cTrump && iTrump {
			return false
		}
		if cTrump && iTrump {
			return challenger.Rank > incumbent.Rank
		}
	}
	if challenger.Suit != leadSuit || incumbent.Suit != leadSuit {
		return false
	}
	return challenger.Rank > incumbent.Rank
}

// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one occupied seat in a room. Position is fixed for the life of
// the room; hand and per-deal counters reset every deal, SetsWon persists.
type Player struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Position int       `json:"position"`

	Hand  []Card `json:"-"`
	Ready bool   `json:"ready"`

	TricksWon  int  `json:"tricksWon"`
	SetsWon    int  `json:"setsWon"`
	IsDeclarer bool `json:"isDeclarer"`
	IsPartner  bool `json:"isPartner"`

	Conn *websocket.Conn `json:"-"`
}

// HasCard reports whether the card is in the player's hand.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}

// HasSuit reports whether the player holds any card of the given suit.
func (p *Player) HasSuit(suit Suit) bool {
	for _, c := range p.Hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// RemoveCard deletes the card from the hand. Returns false if absent.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

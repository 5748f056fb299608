// internal/models/card.go
package models

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Suit is one of the four standard card suits. The single-letter form is
// what goes over the wire ("C", "D", "H", "S").
type Suit string

const (
	Clubs    Suit = "C"
	Diamonds Suit = "D"
	Hearts   Suit = "H"
	Spades   Suit = "S"
)

// Suits lists the four suits in ascending bridge order.
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// Rank values run 2..14; 11..14 are Jack, Queen, King, Ace.
const (
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
	RankAce   = 14
)

var rankNames = map[int]string{
	RankJack: "J", RankQueen: "Q", RankKing: "K", RankAce: "A",
}

var namedRanks = map[string]int{
	"J": RankJack, "Q": RankQueen, "K": RankKing, "A": RankAce,
}

// Card is an immutable rank/suit pair.
type Card struct {
	Suit Suit `json:"suit"`
	Rank int  `json:"rank"`
}

// ValidSuit reports whether s is one of the four playable suits.
func ValidSuit(s Suit) bool {
	return s == Clubs || s == Diamonds || s == Hearts || s == Spades
}

// ValidRank reports whether r is within the 2..Ace range.
func ValidRank(r int) bool {
	return r >= 2 && r <= RankAce
}

// String renders the wire form: rank digits or J/Q/K/A followed by the suit
// letter, e.g. "10H", "AS".
func (c Card) String() string {
	if name, ok := rankNames[c.Rank]; ok {
		return name + string(c.Suit)
	}
	return fmt.Sprintf("%d%s", c.Rank, c.Suit)
}

// ParseCard decodes the wire form produced by String.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("malformed card %q", s)
	}
	suit := Suit(s[len(s)-1:])
	if !ValidSuit(suit) {
		return Card{}, fmt.Errorf("unknown suit in card %q", s)
	}
	rankStr := s[:len(s)-1]
	rank, ok := namedRanks[rankStr]
	if !ok {
		if _, err := fmt.Sscanf(rankStr, "%d", &rank); err != nil {
			return Card{}, fmt.Errorf("unknown rank in card %q", s)
		}
	}
	if !ValidRank(rank) {
		return Card{}, fmt.Errorf("rank out of range in card %q", s)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// NewDeck builds the standard 52-card deck in suit/rank order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := 2; rank <= RankAce; rank++ {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// Shuffle permutes the deck in place with a uniform Fisher-Yates shuffle.
func Shuffle(deck []Card) {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	r.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// SortHand orders a hand by suit then rank. Display convenience only; the
// engine never depends on hand order.
func SortHand(hand []Card) {
	order := map[Suit]int{Clubs: 0, Diamonds: 1, Hearts: 2, Spades: 3}
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return order[hand[i].Suit] < order[hand[j].Suit]
		}
		return hand[i].Rank < hand[j].Rank
	})
}

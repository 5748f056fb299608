// internal/models/bid.go
package models

import (
	"fmt"
	"strings"
)

// BidSuit extends Suit with the no-trump denomination.
type BidSuit string

const (
	BidClubs    BidSuit = "C"
	BidDiamonds BidSuit = "D"
	BidHearts   BidSuit = "H"
	BidSpades   BidSuit = "S"
	NoTrump     BidSuit = "NT"
)

// bidSuitOrder ranks denominations at equal level: C < D < H < S < NT.
var bidSuitOrder = map[BidSuit]int{
	BidClubs: 0, BidDiamonds: 1, BidHearts: 2, BidSpades: 3, NoTrump: 4,
}

// Bid is a contract offer: level 1..7 in a denomination.
type Bid struct {
	Level int     `json:"level"`
	Suit  BidSuit `json:"suit"`
}

// Valid reports whether the bid has a legal level and denomination.
func (b Bid) Valid() bool {
	_, ok := bidSuitOrder[b.Suit]
	return ok && b.Level >= 1 && b.Level <= 7
}

// Beats reports whether b outranks other. A nil other means no bid exists
// yet, which any valid bid beats. Level dominates; suit order breaks ties.
func (b Bid) Beats(other *Bid) bool {
	if other == nil {
		return true
	}
	if b.Level != other.Level {
		return b.Level > other.Level
	}
	return bidSuitOrder[b.Suit] > bidSuitOrder[other.Suit]
}

// TrumpSuit converts the winning denomination into the trump suit for trick
// play. A no-trump contract yields nil.
func (b Bid) TrumpSuit() *Suit {
	if b.Suit == NoTrump {
		return nil
	}
	s := Suit(b.Suit)
	return &s
}

// TricksNeeded is the contract target: level plus the book of six.
func (b Bid) TricksNeeded() int {
	return b.Level + 6
}

func (b Bid) String() string {
	return fmt.Sprintf("%d%s", b.Level, b.Suit)
}

// ParseBidSuit decodes a denomination from the wire ("C".."S", "NT").
func ParseBidSuit(s string) (BidSuit, error) {
	bs := BidSuit(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := bidSuitOrder[bs]; !ok {
		return "", fmt.Errorf("unknown bid suit %q", s)
	}
	return bs, nil
}

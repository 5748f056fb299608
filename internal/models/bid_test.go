// internal/models/bid_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidValid(t *testing.T) {
	assert.True(t, Bid{Level: 1, Suit: BidClubs}.Valid())
	assert.True(t, Bid{Level: 7, Suit: NoTrump}.Valid())
	assert.False(t, Bid{Level: 0, Suit: BidClubs}.Valid())
	assert.False(t, Bid{Level: 8, Suit: BidSpades}.Valid())
	assert.False(t, Bid{Level: 3, Suit: BidSuit("X")}.Valid())
}

func TestBidBeats(t *testing.T) {
	// Any valid bid beats an empty auction.
	assert.True(t, Bid{Level: 1, Suit: BidClubs}.Beats(nil))

	oneHeart := &Bid{Level: 1, Suit: BidHearts}

	// Same level: suit order C < D < H < S < NT.
	assert.True(t, Bid{Level: 1, Suit: BidSpades}.Beats(oneHeart))
	assert.True(t, Bid{Level: 1, Suit: NoTrump}.Beats(oneHeart))
	assert.False(t, Bid{Level: 1, Suit: BidDiamonds}.Beats(oneHeart))
	assert.False(t, Bid{Level: 1, Suit: BidHearts}.Beats(oneHeart))

	// Level dominates suit.
	assert.True(t, Bid{Level: 2, Suit: BidClubs}.Beats(&Bid{Level: 1, Suit: NoTrump}))
	assert.False(t, Bid{Level: 1, Suit: NoTrump}.Beats(&Bid{Level: 2, Suit: BidClubs}))
}

func TestBidTrumpSuit(t *testing.T) {
	trump := Bid{Level: 4, Suit: BidHearts}.TrumpSuit()
	require.NotNil(t, trump)
	assert.Equal(t, Hearts, *trump)

	assert.Nil(t, Bid{Level: 3, Suit: NoTrump}.TrumpSuit())
}

func TestBidTricksNeeded(t *testing.T) {
	assert.Equal(t, 7, Bid{Level: 1, Suit: BidClubs}.TricksNeeded())
	assert.Equal(t, 9, Bid{Level: 3, Suit: BidHearts}.TricksNeeded())
	assert.Equal(t, 13, Bid{Level: 7, Suit: NoTrump}.TricksNeeded())
}

func TestParseBidSuit(t *testing.T) {
	bs, err := ParseBidSuit("nt")
	require.NoError(t, err)
	assert.Equal(t, NoTrump, bs)

	bs, err = ParseBidSuit(" s ")
	require.NoError(t, err)
	assert.Equal(t, BidSpades, bs)

	_, err = ParseBidSuit("Z")
	assert.Error(t, err)
}

func TestBidString(t *testing.T) {
	assert.Equal(t, "3H", Bid{Level: 3, Suit: BidHearts}.String())
	assert.Equal(t, "7NT", Bid{Level: 7, Suit: NoTrump}.String())
}

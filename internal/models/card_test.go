// internal/models/card_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardString(t *testing.T) {
	assert.Equal(t, "2C", Card{Suit: Clubs, Rank: 2}.String())
	assert.Equal(t, "10H", Card{Suit: Hearts, Rank: 10}.String())
	assert.Equal(t, "JD", Card{Suit: Diamonds, Rank: RankJack}.String())
	assert.Equal(t, "QS", Card{Suit: Spades, Rank: RankQueen}.String())
	assert.Equal(t, "KC", Card{Suit: Clubs, Rank: RankKing}.String())
	assert.Equal(t, "AS", Card{Suit: Spades, Rank: RankAce}.String())
}

func TestParseCard(t *testing.T) {
	c, err := ParseCard("10H")
	require.NoError(t, err)
	assert.Equal(t, Card{Suit: Hearts, Rank: 10}, c)

	c, err = ParseCard("as")
	require.NoError(t, err)
	assert.Equal(t, Card{Suit: Spades, Rank: RankAce}, c)

	c, err = ParseCard(" kd ")
	require.NoError(t, err)
	assert.Equal(t, Card{Suit: Diamonds, Rank: RankKing}, c)

	for _, bad := range []string{"", "H", "1H", "15S", "0C", "AX", "QQ"} {
		_, err := ParseCard(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestNewDeckHas52UniqueCards(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, 52)

	seen := make(map[Card]bool, 52)
	for _, c := range deck {
		assert.True(t, ValidSuit(c.Suit))
		assert.True(t, ValidRank(c.Rank))
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
}

func TestShufflePreservesDeckContents(t *testing.T) {
	deck := NewDeck()
	Shuffle(deck)
	require.Len(t, deck, 52)

	seen := make(map[Card]bool, 52)
	for _, c := range deck {
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestSortHandOrdersBySuitThenRank(t *testing.T) {
	hand := []Card{
		{Suit: Spades, Rank: 3},
		{Suit: Clubs, Rank: RankAce},
		{Suit: Hearts, Rank: 2},
		{Suit: Clubs, Rank: 4},
	}
	SortHand(hand)
	assert.Equal(t, []Card{
		{Suit: Clubs, Rank: 4},
		{Suit: Clubs, Rank: RankAce},
		{Suit: Hearts, Rank: 2},
		{Suit: Spades, Rank: 3},
	}, hand)
}

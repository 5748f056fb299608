// internal/game/timer_test.go
package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatbridge/internal/models"
)

func TestBidTimeoutInjectsPass(t *testing.T) {
	r, mb := setupTestRoom(t)
	r.TurnDuration = 50 * time.Millisecond
	r.startDeal()
	defer func() {
		r.Mu.Lock()
		r.cancelTurnTimer()
		r.Mu.Unlock()
	}()

	r.Mu.Lock()
	firstTurn := r.BidTurn
	r.Mu.Unlock()

	assert.Eventually(t, func() bool {
		r.Mu.Lock()
		defer r.Mu.Unlock()
		return r.ConsecutivePasses >= 1 || len(mb.eventsOfType(EventDealStarted)) > 1
	}, time.Second, 10*time.Millisecond, "expired bid turn must count as a pass")

	updates := mb.eventsOfType(EventBidUpdate)
	require.NotEmpty(t, updates)
	assert.Equal(t, true, updates[0].Payload["pass"])
	assert.Equal(t, firstTurn, updates[0].Payload["position"])
}

func TestPlayTimeoutInjectsLegalCard(t *testing.T) {
	r, mb := setupPlayingRoom(t, nil, [4][]models.Card{
		0: {card("2D")},
		1: {card("5C"), card("7C")},
		2: {card("KC"), card("3H")},
		3: {card("2S")},
	})
	r.TurnDuration = 50 * time.Millisecond
	r.Mu.Lock()
	r.scheduleTurnTimer()
	r.Mu.Unlock()
	defer func() {
		r.Mu.Lock()
		r.cancelTurnTimer()
		r.Mu.Unlock()
	}()

	assert.Eventually(t, func() bool {
		r.Mu.Lock()
		defer r.Mu.Unlock()
		return len(r.CurrentTrick) >= 1
	}, time.Second, 10*time.Millisecond, "expired play turn must lay a card")

	r.Mu.Lock()
	first := r.CurrentTrick[0]
	r.Mu.Unlock()
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, models.Clubs, first.Card.Suit)
	assert.NotEmpty(t, mb.eventsOfType(EventCardPlayed))
}

func TestPlayTimeoutFollowsSuitWhenPossible(t *testing.T) {
	r, _ := setupPlayingRoom(t, nil, [4][]models.Card{
		0: {card("2D")},
		1: {card("5C")},
		2: {card("KC"), card("3H"), card("4H"), card("5H")},
		3: {card("2S")},
	})
	r.TurnDuration = 50 * time.Millisecond
	r.HandlePlayCard(r.Players[1].ID, card("5C"))

	assert.Eventually(t, func() bool {
		r.Mu.Lock()
		defer r.Mu.Unlock()
		return len(r.CurrentTrick) >= 2
	}, time.Second, 10*time.Millisecond)

	r.Mu.Lock()
	defer func() {
		r.cancelTurnTimer()
		r.Mu.Unlock()
	}()
	// Seat 2 holds exactly one club; the fallback has no other legal choice.
	assert.Equal(t, card("KC"), r.CurrentTrick[1].Card)
}

func TestPlayerActionCancelsTimer(t *testing.T) {
	r, _ := setupTestRoom(t)
	r.TurnDuration = 80 * time.Millisecond
	r.startDeal()
	defer func() {
		r.Mu.Lock()
		r.cancelTurnTimer()
		r.Mu.Unlock()
	}()

	// An in-turn bid lands before the timeout and must replace, not stack
	// with, the fallback pass.
	bidInTurn(r, models.Bid{Level: 1, Suit: models.BidClubs})

	time.Sleep(40 * time.Millisecond)

	r.Mu.Lock()
	defer r.Mu.Unlock()
	require.NotNil(t, r.HighestBid)
	assert.Equal(t, "1C", r.HighestBid.String())
	assert.Equal(t, 0, r.ConsecutivePasses, "stale timer must not fire a pass for a consumed turn")
}

func TestRandomLegalCardHonorsFollowSuit(t *testing.T) {
	hand := []models.Card{card("2H"), card("9C"), card("AH")}
	lead := []TrickPlay{{Position: 0, Card: card("5H")}}

	for i := 0; i < 20; i++ {
		c, ok := randomLegalCard(hand, lead)
		require.True(t, ok)
		assert.Equal(t, models.Hearts, c.Suit)
	}

	// Void in the lead suit: any card is legal.
	c, ok := randomLegalCard([]models.Card{card("9C")}, lead)
	require.True(t, ok)
	assert.Equal(t, card("9C"), c)

	_, ok = randomLegalCard(nil, lead)
	assert.False(t, ok)
}

// internal/game/trick_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"floatbridge/internal/models"
)

func trick(cards ...string) []TrickPlay {
	plays := make([]TrickPlay, len(cards))
	for i, s := range cards {
		c, err := models.ParseCard(s)
		if err != nil {
			panic(err)
		}
		plays[i] = TrickPlay{Position: i, Card: c}
	}
	return plays
}

func TestEvaluateTrickTrumpBeatsNonTrump(t *testing.T) {
	trump := models.Hearts
	// A low trump takes the trick over any off-suit rank.
	winner := EvaluateTrick(trick("5C", "KC", "3H", "2C"), &trump)
	assert.Equal(t, 2, winner)
}

func TestEvaluateTrickNoTrumpHighestLeadSuitWins(t *testing.T) {
	winner := EvaluateTrick(trick("5C", "KC", "3H", "2C"), nil)
	assert.Equal(t, 1, winner)
}

func TestEvaluateTrickTrumpVsTrumpByRank(t *testing.T) {
	trump := models.Hearts
	winner := EvaluateTrick(trick("QH", "KH", "2H", "AH"), &trump)
	assert.Equal(t, 3, winner)
}

func TestEvaluateTrickOffSuitNeverWins(t *testing.T) {
	// Nobody follows the club lead and there is no trump; the lead stands.
	winner := EvaluateTrick(trick("5C", "AH", "KS", "QD"), nil)
	assert.Equal(t, 0, winner)
}

func TestEvaluateTrickTrumpLedOthersFollow(t *testing.T) {
	trump := models.Spades
	winner := EvaluateTrick(trick("9S", "JS", "2S", "AD"), &trump)
	assert.Equal(t, 1, winner)
}

func TestEvaluateTrickLeadHeldByLaterHigherCard(t *testing.T) {
	winner := EvaluateTrick(trick("9D", "10D", "JD", "QD"), nil)
	assert.Equal(t, 3, winner)
}

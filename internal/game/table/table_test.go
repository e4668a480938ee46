package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleState() *State {
	hand := make(Hand, HandSize)
	for i := range hand {
		hand[i] = Card{ID: "c" + string(rune('a'+i)), Value: i, Position: i}
	}
	hand[0].Visible = true
	open := Card{ID: "open", Value: 7, Visible: true}
	return &State{
		Players:  []Participant{{ID: "1", Name: "alice", Hand: hand}},
		Deck:     []Card{{ID: "d1", Value: 3}},
		OpenCard: &open,
		Phase:    PhasePlaying,
		Turn:     ChooseRevealed{Drawn: Card{ID: "drawn", Value: -2, Visible: true}},
		Round:    1,
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleState()
	c := s.Clone()

	c.Players[0].Hand[1].Visible = true
	c.Players[0].Total = 42
	c.Deck[0].Value = 11
	c.OpenCard.Value = 1

	assert.False(t, s.Players[0].Hand[1].Visible)
	assert.Equal(t, 0, s.Players[0].Total)
	assert.Equal(t, 3, s.Deck[0].Value)
	assert.Equal(t, 7, s.OpenCard.Value)
}

func TestRevealedCardOnlyInChooseRevealed(t *testing.T) {
	s := sampleState()
	rc := s.RevealedCard()
	if assert.NotNil(t, rc) {
		assert.Equal(t, "drawn", rc.ID)
	}
	assert.Equal(t, ActionChooseRevealed, s.ActionPhase())

	s.Turn = Swap{}
	assert.Nil(t, s.RevealedCard())
	assert.Equal(t, ActionSwap, s.ActionPhase())

	s.Turn = nil
	assert.Equal(t, ActionChoose, s.ActionPhase())
}

func TestSnapshotHidesFaceDownValues(t *testing.T) {
	s := sampleState()
	s.Players[0].Hand[2] = Card{ID: "gone", Visible: true, Removed: true, Position: 2}

	v := Snapshot(s)

	assert.Equal(t, 1, v.DeckCount)
	cards := v.Players[0].Cards
	if assert.NotNil(t, cards[0].Value) {
		assert.Equal(t, 0, *cards[0].Value)
	}
	assert.Nil(t, cards[1].Value, "face-down value must not leak")
	assert.NotNil(t, cards[2].Value)
	assert.True(t, v.Players[0].Current)
	if assert.NotNil(t, v.RevealedCard) {
		assert.Equal(t, -2, *v.RevealedCard.Value)
	}
}

func TestParticipantVisibleCount(t *testing.T) {
	p := Participant{Hand: Hand{
		{Visible: true},
		{Visible: true, Removed: true},
		{},
		{Visible: true},
	}}
	assert.Equal(t, 2, p.VisibleCount())
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "[??]", Card{Value: 5}.String())
	assert.Equal(t, "[ 5]", Card{Value: 5, Visible: true}.String())
	assert.Equal(t, "[-2]", Card{Value: -2, Visible: true}.String())
	assert.Equal(t, "[--]", Card{Visible: true, Removed: true}.String())
	assert.Equal(t, 3, Card{Position: 7}.Column())
}

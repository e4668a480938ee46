package engine

import (
	"fmt"

	"VibeJo/internal/game/table"
)

func threePlayers() []table.Participant {
	return []table.Participant{
		{ID: "1", Name: "alice"},
		{ID: "2", Name: "Player 2"},
		{ID: "3", Name: "Player 3"},
	}
}

// hand 构造一手指定点数的牌，visible 中的位置翻开
func hand(values [12]int, visible ...int) table.Hand {
	h := make(table.Hand, table.HandSize)
	for i, v := range values {
		h[i] = table.Card{ID: fmt.Sprintf("h-%d-%d", i, v), Value: v, Position: i}
	}
	for _, p := range visible {
		h[p].Visible = true
	}
	return h
}

func allBut(skip ...int) []int {
	out := []int{}
	for i := 0; i < table.HandSize; i++ {
		keep := true
		for _, s := range skip {
			if s == i {
				keep = false
			}
		}
		if keep {
			out = append(out, i)
		}
	}
	return out
}

// playingState 手工搭一个 playing/choose 的局面
func playingState(hands ...table.Hand) *table.State {
	players := make([]table.Participant, len(hands))
	for i, h := range hands {
		players[i] = table.Participant{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("p%d", i+1), Hand: h}
	}
	open := table.Card{ID: "open", Value: 7, Visible: true}
	deck := []table.Card{{ID: "d0", Value: 4}, {ID: "d1", Value: -2}, {ID: "d2", Value: 9}}
	return &table.State{
		Players:  players,
		Deck:     deck,
		OpenCard: &open,
		Phase:    table.PhasePlaying,
		Turn:     table.Choose{},
		Round:    1,
	}
}

var plain = [12]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

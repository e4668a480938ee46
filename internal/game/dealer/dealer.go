package dealer

import (
	"errors"
	"fmt"
	"math/rand"

	"VibeJo/internal/game/table"
)

// DeckSize 固定 150 张
const DeckSize = 150

var (
	ErrNoParticipants = errors.New("dealer: no participants")
	ErrDeckTooSmall   = errors.New("dealer: deck too small for participants")
)

// Distribution 每个点数的张数：-2 x5, 0 x15, 其余 -1..12 各 10 张
var Distribution = func() map[int]int {
	d := map[int]int{-2: 5, 0: 15}
	for v := -1; v <= 12; v++ {
		if v != 0 {
			d[v] = 10
		}
	}
	return d
}()

// Dealer 只负责建牌、洗牌与发牌（无规则判断）。
// 所有随机性都来自 rnd，测试可以传入固定种子。
type Dealer struct {
	rnd *rand.Rand
}

func NewDealer(seed int64) *Dealer {
	return &Dealer{rnd: rand.New(rand.NewSource(seed))}
}

// NewDeck 初始化一副牌并洗牌
func (d *Dealer) NewDeck() []table.Card {
	return d.Shuffle(BuildDeck())
}

// BuildDeck 按固定分布构造未洗的牌，id 全局唯一
func BuildDeck() []table.Card {
	deck := make([]table.Card, 0, DeckSize)
	for v := -2; v <= 12; v++ {
		for i := 0; i < Distribution[v]; i++ {
			deck = append(deck, table.Card{ID: fmt.Sprintf("deck-%d-%d", v, i), Value: v})
		}
	}
	return deck
}

// Shuffle Fisher-Yates，返回新切片，不修改入参
func (d *Dealer) Shuffle(deck []table.Card) []table.Card {
	out := append([]table.Card(nil), deck...)
	for i := len(out) - 1; i > 0; i-- {
		j := d.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Deal 每人 12 张，按牌堆顺序放到 position 0-11，全部背面朝上。
// preserveTotal 为 true 时保留累计分（新一轮），否则清零（新游戏）。
func Deal(players []table.Participant, deck []table.Card, preserveTotal bool) ([]table.Participant, []table.Card, error) {
	if len(players) == 0 {
		return nil, nil, ErrNoParticipants
	}
	need := table.HandSize * len(players)
	if len(deck) < need {
		return nil, nil, fmt.Errorf("%w: need %d, have %d", ErrDeckTooSmall, need, len(deck))
	}

	out := make([]table.Participant, len(players))
	for i, p := range players {
		hand := make(table.Hand, table.HandSize)
		for pos := 0; pos < table.HandSize; pos++ {
			c := deck[i*table.HandSize+pos]
			c.Position = pos
			c.Visible = false
			c.Removed = false
			hand[pos] = c
		}
		p.Hand = hand
		p.Score = 0
		p.Finished = false
		if !preserveTotal {
			p.Total = 0
		}
		out[i] = p
	}
	return out, append([]table.Card(nil), deck[need:]...), nil
}

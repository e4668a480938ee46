package dealer

import (
	"errors"
	"sort"
	"testing"
	"time"

	"VibeJo/internal/game/table"

	"github.com/stretchr/testify/assert"
)

func ids(cards []table.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	sort.Strings(out)
	return out
}

func players(n int) []table.Participant {
	out := make([]table.Participant, n)
	for i := range out {
		out[i] = table.Participant{ID: string(rune('1' + i)), Total: 10 * (i + 1)}
	}
	return out
}

// ✅ 测试牌组分布
func TestNewDeck(t *testing.T) {
	d := NewDealer(time.Now().UnixNano())
	deck := d.NewDeck()

	if len(deck) != DeckSize {
		t.Fatalf("expected %d cards, got %d", DeckSize, len(deck))
	}

	counts := make(map[int]int)
	seen := make(map[string]bool)
	for _, c := range deck {
		counts[c.Value]++
		if seen[c.ID] {
			t.Fatalf("duplicate id %s", c.ID)
		}
		seen[c.ID] = true
		assert.False(t, c.Visible)
		assert.False(t, c.Removed)
	}
	assert.Equal(t, Distribution, counts)
	assert.Equal(t, 5, counts[-2])
	assert.Equal(t, 15, counts[0])
	assert.Equal(t, 10, counts[12])
	assert.Len(t, counts, 15)
}

// ✅ 洗牌是双射
func TestShuffleIsBijection(t *testing.T) {
	d := NewDealer(7)
	in := BuildDeck()
	before := append([]table.Card(nil), in...)

	out := d.Shuffle(in)

	assert.Equal(t, ids(in), ids(out))
	assert.Equal(t, before, in, "input must not be mutated")
	assert.NotEqual(t, in, out)
}

// ✅ 相同种子得到相同序列
func TestShuffleChangesOrder(t *testing.T) {
	d1 := NewDealer(42)
	d2 := NewDealer(42)
	assert.Equal(t, d1.NewDeck(), d2.NewDeck())

	d3 := NewDealer(99)
	assert.NotEqual(t, NewDealer(42).NewDeck(), d3.NewDeck())
}

// ✅ 测试发牌逻辑
func TestDeal(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		deck := NewDealer(int64(n)).NewDeck()
		dealt, rest, err := Deal(players(n), deck, false)
		if err != nil {
			t.Fatalf("deal %d: %v", n, err)
		}
		assert.Len(t, rest, DeckSize-12*n)
		for i, p := range dealt {
			assert.Len(t, p.Hand, table.HandSize)
			assert.Equal(t, 0, p.Total)
			assert.Equal(t, 0, p.Score)
			for pos, c := range p.Hand {
				assert.Equal(t, pos, c.Position)
				assert.False(t, c.Visible)
				assert.Equal(t, deck[i*table.HandSize+pos].ID, c.ID, "deck order")
			}
		}
		// 发出的牌 + 剩余牌 = 原牌堆
		all := append([]table.Card(nil), rest...)
		for _, p := range dealt {
			all = append(all, p.Hand...)
		}
		assert.Equal(t, ids(deck), ids(all))
	}
}

func TestDealPreservesTotal(t *testing.T) {
	in := players(3)
	in[1].Finished = true
	in[1].Score = 17

	dealt, _, err := Deal(in, BuildDeck(), true)
	assert.NoError(t, err)
	assert.Equal(t, 20, dealt[1].Total)
	assert.Equal(t, 0, dealt[1].Score)
	assert.False(t, dealt[1].Finished)
	// 入参不变
	assert.True(t, in[1].Finished)
}

func TestDealErrors(t *testing.T) {
	_, _, err := Deal(nil, BuildDeck(), false)
	assert.True(t, errors.Is(err, ErrNoParticipants))

	_, _, err = Deal(players(13), BuildDeck(), false)
	assert.True(t, errors.Is(err, ErrDeckTooSmall))

	_, rest, err := Deal(players(12), BuildDeck(), false)
	assert.NoError(t, err)
	assert.Len(t, rest, 6)
}

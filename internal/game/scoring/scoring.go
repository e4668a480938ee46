// Package scoring holds the pure hand evaluation rules: visible sums, matched
// columns and their removal, and the round/game lifecycle checks built on them.
package scoring

import (
	"sort"

	"VibeJo/internal/game/table"
)

// GameEndScore 任一玩家累计分达到该值时，在本轮结算后结束整局
const GameEndScore = 100

// HandSum 已翻开且未移除的牌点数之和
func HandSum(hand table.Hand) int {
	sum := 0
	for _, c := range hand {
		if c.Visible && !c.Removed {
			sum += c.Value
		}
	}
	return sum
}

// MatchedColumns 返回同列三张翻开、未移除且点数相同的位置。
// 每列独立判断，结果按位置升序。
func MatchedColumns(hand table.Hand) []int {
	byPos := make(map[int]table.Card, len(hand))
	for _, c := range hand {
		byPos[c.Position] = c
	}

	var out []int
	for col := 0; col < table.Columns; col++ {
		positions := []int{col, col + table.Columns, col + 2*table.Columns}
		matched := true
		var value int
		for i, pos := range positions {
			c, ok := byPos[pos]
			if !ok || !c.Visible || c.Removed {
				matched = false
				break
			}
			if i == 0 {
				value = c.Value
			} else if c.Value != value {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, positions...)
		}
	}
	sort.Ints(out)
	return out
}

// ApplyRemoval 把给定位置的牌标记为移除（翻开、点数清零）。幂等，返回新 Hand。
func ApplyRemoval(hand table.Hand, positions []int) table.Hand {
	out := append(table.Hand(nil), hand...)
	if len(positions) == 0 {
		return out
	}
	remove := make(map[int]bool, len(positions))
	for _, p := range positions {
		remove[p] = true
	}
	for i, c := range out {
		if remove[c.Position] {
			out[i].Visible = true
			out[i].Removed = true
			out[i].Value = 0
		}
	}
	return out
}

// FinalScore 先强制全部翻开，再按 HandSum 计分（只在回合结束时用）
func FinalScore(hand table.Hand) int {
	return HandSum(forceVisible(hand))
}

func forceVisible(hand table.Hand) table.Hand {
	out := append(table.Hand(nil), hand...)
	for i := range out {
		out[i].Visible = true
	}
	return out
}

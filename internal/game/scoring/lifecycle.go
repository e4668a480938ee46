package scoring

import (
	"sort"

	"VibeJo/internal/game/table"
)

// IsHandComplete 每张牌都已翻开或被移除
func IsHandComplete(hand table.Hand) bool {
	for _, c := range hand {
		if !c.Visible && !c.Removed {
			return false
		}
	}
	return true
}

// RoundShouldEnd 至少一名玩家手牌已完成
func RoundShouldEnd(players []table.Participant) bool {
	for _, p := range players {
		if len(p.Hand) > 0 && IsHandComplete(p.Hand) {
			return true
		}
	}
	return false
}

// RevealAll 翻开所有牌（不改变 Removed/Value）并用 FinalScore 重算本轮得分
func RevealAll(players []table.Participant) []table.Participant {
	out := make([]table.Participant, len(players))
	for i, p := range players {
		p.Hand = forceVisible(p.Hand)
		p.Score = FinalScore(p.Hand)
		out[i] = p
	}
	return out
}

// GameOver 任一玩家累计分 >= GameEndScore
func GameOver(players []table.Participant) bool {
	for _, p := range players {
		if p.Total >= GameEndScore {
			return true
		}
	}
	return false
}

// Starter 初始翻牌后点数和最大的玩家先手，平局取下标最小者
func Starter(players []table.Participant) int {
	best, bestSum := 0, 0
	for i, p := range players {
		sum := HandSum(p.Hand)
		if i == 0 || sum > bestSum {
			best, bestSum = i, sum
		}
	}
	return best
}

// Standing 排名中的一项
type Standing struct {
	Index int
	ID    string
	Name  string
	Total int
}

// Ranking 按累计分升序（低分获胜），平局保持座位顺序
func Ranking(players []table.Participant) []Standing {
	out := make([]Standing, len(players))
	for i, p := range players {
		out[i] = Standing{Index: i, ID: p.ID, Name: p.Name, Total: p.Total}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total < out[j].Total })
	return out
}

package results

import (
	"context"
	"errors"
	"sort"
	"time"

	"VibeJo/internal/game/agent"
	"VibeJo/internal/game/scoring"
	"VibeJo/internal/game/table"

	"github.com/google/uuid"
)

// PlayerResult 单个参与者的终局结果
type PlayerResult struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
	Bot   bool   `json:"bot"`
	Won   bool   `json:"won"`
}

// GameResult 一整局的记录
type GameResult struct {
	ID         string         `json:"id"`
	RoomID     string         `json:"roomId"`
	Rounds     int            `json:"rounds"`
	Winner     string         `json:"winner"`
	Players    []PlayerResult `json:"players"`
	FinishedAt time.Time      `json:"finishedAt"`
}

// Standing 排行榜中的一项（只统计真人）
type Standing struct {
	Name  string `json:"name"`
	Wins  int    `json:"wins"`
	Games int    `json:"games"`
}

// Store 战绩存储
type Store interface {
	Record(ctx context.Context, r GameResult) error
	Top(ctx context.Context, n int) ([]Standing, error)
}

// ErrAborted 对局在任何人达到分数上限前被提前结束
var ErrAborted = errors.New("results: game ended before the score limit")

// Completed 整局是否打到分数上限自然结束
func Completed(s *table.State) bool {
	return s != nil && s.Phase == table.PhaseGameFinished && scoring.GameOver(s.Players)
}

// RecordFinal 只把自然结束的对局写入 store，提前结束的返回 ErrAborted
func RecordFinal(ctx context.Context, store Store, roomID string, s *table.State) (GameResult, error) {
	if !Completed(s) {
		return GameResult{}, ErrAborted
	}
	res := FromState(roomID, s)
	return res, store.Record(ctx, res)
}

// FromState 由终局状态生成记录：累计分最低者获胜，平局取座位靠前者
func FromState(roomID string, s *table.State) GameResult {
	ranking := scoring.Ranking(s.Players)
	res := GameResult{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		Rounds:     s.Round,
		FinishedAt: time.Now().UTC(),
	}
	winner := -1
	if len(ranking) > 0 {
		winner = ranking[0].Index
		res.Winner = ranking[0].Name
	}
	for i, p := range s.Players {
		res.Players = append(res.Players, PlayerResult{
			Name:  p.Name,
			Total: p.Total,
			Bot:   p.ID != agent.HumanID,
			Won:   i == winner,
		})
	}
	return res
}

// 胜场降序，局数升序，再按名字
func sortStandings(out []Standing) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].Games != out[j].Games {
			return out[i].Games < out[j].Games
		}
		return out[i].Name < out[j].Name
	})
}

func limit(out []Standing, n int) []Standing {
	if n > 0 && len(out) > n {
		return out[:n]
	}
	return out
}

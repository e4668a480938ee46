package table

import "fmt"

const (
	HandSize = 12
	Columns  = 4
	Rows     = HandSize / Columns
)

// GamePhase 对局阶段
type GamePhase string

const (
	PhaseInitial       GamePhase = "initial"
	PhasePlaying       GamePhase = "playing"
	PhaseRoundFinished GamePhase = "round_finished"
	PhaseGameFinished  GamePhase = "game_finished"
)

// Card 一张牌。Removed 的牌 Value 恒为 0，且 Visible 恒为 true
type Card struct {
	ID       string `json:"id"`
	Value    int    `json:"value"`
	Visible  bool   `json:"visible"`
	Removed  bool   `json:"removed"`
	Position int    `json:"position"`
}

// Column 返回该牌所在的列 (0-3)
func (c Card) Column() int { return c.Position % Columns }

// FaceDown 未翻开且未移除
func (c Card) FaceDown() bool { return !c.Visible && !c.Removed }

func (c Card) String() string {
	switch {
	case c.Removed:
		return "[--]"
	case !c.Visible:
		return "[??]"
	}
	return fmt.Sprintf("[%2d]", c.Value)
}

// Hand 3x4 网格，按 position 索引
type Hand []Card

// Participant 一名玩家（真人或机器人）
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Hand     Hand   `json:"hand"`
	Finished bool   `json:"finished"`
	Score    int    `json:"score"` // 本轮得分
	Total    int    `json:"total"` // 累计得分
}

// VisibleCount 已翻开且未移除的牌数
func (p Participant) VisibleCount() int {
	n := 0
	for _, c := range p.Hand {
		if c.Visible && !c.Removed {
			n++
		}
	}
	return n
}

// State 一张桌子的完整快照。只能通过 engine.Transition 推进。
type State struct {
	Players  []Participant
	Current  int
	Deck     []Card
	OpenCard *Card
	Phase    GamePhase
	// Turn 仅在 PhasePlaying 时有意义
	Turn  Turn
	Round int

	// 结束相关
	EndedBy  string
	LastTurn bool

	// Version 每次有效转移 +1，宿主用它识别过期的机器人定时器
	Version uint64
}

// ActivePlayer 当前行动玩家；没有玩家时返回 nil
func (s *State) ActivePlayer() *Participant {
	if s == nil || s.Current < 0 || s.Current >= len(s.Players) {
		return nil
	}
	return &s.Players[s.Current]
}

// ActionPhase 当前回合子阶段
func (s *State) ActionPhase() ActionPhase {
	if s.Turn == nil {
		return ActionChoose
	}
	return s.Turn.Phase()
}

// RevealedCard 从牌堆翻出、尚未决定去留的牌
func (s *State) RevealedCard() *Card {
	if r, ok := s.Turn.(ChooseRevealed); ok {
		c := r.Drawn
		return &c
	}
	return nil
}

// Dealt 是否已经发过牌
func (s *State) Dealt() bool {
	for _, p := range s.Players {
		if len(p.Hand) > 0 {
			return true
		}
	}
	return false
}

// Clone 深拷贝，转移函数在副本上修改，旧快照保持不变
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Players = make([]Participant, len(s.Players))
	for i, p := range s.Players {
		p.Hand = append(Hand(nil), p.Hand...)
		out.Players[i] = p
	}
	out.Deck = append([]Card(nil), s.Deck...)
	if s.OpenCard != nil {
		c := *s.OpenCard
		out.OpenCard = &c
	}
	return &out
}

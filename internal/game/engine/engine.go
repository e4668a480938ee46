package engine

import (
	"VibeJo/internal/game/dealer"
	"VibeJo/internal/game/scoring"
	"VibeJo/internal/game/table"
)

// ---------------------
//       ENGINE
// ---------------------

// Engine 是回合状态机。Transition 是唯一入口：
// 输入旧状态与动作，返回新状态，从不修改旧状态，也从不失败。
// 当前阶段不接受的动作原样返回旧状态（同一个指针）。
type Engine struct {
	Dealer *dealer.Dealer
}

func NewEngine(seed int64) *Engine {
	return &Engine{Dealer: dealer.NewDealer(seed)}
}

// NewGame 建一张新桌：洗好的整副牌，尚未发牌，等待 StartGame
func (e *Engine) NewGame(players []table.Participant) *table.State {
	ps := make([]table.Participant, len(players))
	for i, p := range players {
		ps[i] = table.Participant{ID: p.ID, Name: p.Name}
	}
	return &table.State{
		Players: ps,
		Deck:    e.Dealer.NewDeck(),
		Phase:   table.PhaseInitial,
		Turn:    table.Choose{},
		Round:   1,
	}
}

func (e *Engine) Transition(s *table.State, a Action) *table.State {
	if s == nil || a == nil || len(s.Players) == 0 {
		return s
	}
	next := s.Clone()
	if !e.apply(next, a) {
		return s
	}
	next.Version = s.Version + 1
	return next
}

// apply 在副本上执行动作，返回是否生效
func (e *Engine) apply(n *table.State, a Action) bool {
	switch act := a.(type) {
	case StartGame:
		return e.startGame(n)
	case RevealOwnCard:
		return revealOwnCard(n, act.Index)
	case PickOpenCard:
		return pickOpenCard(n)
	case RevealFromDeck:
		return revealFromDeck(n, act)
	case PickRevealedCard:
		return resolveRevealed(n, table.Swap{})
	case RejectRevealedCard:
		return resolveRevealed(n, table.Reveal{})
	case SwapCard:
		return swapCard(n, act.Index)
	case EndTurn:
		return endTurn(n)
	case StartNewRound:
		return e.startNewRound(n)
	case EndGame:
		if n.Phase == table.PhaseGameFinished {
			return false
		}
		n.Phase = table.PhaseGameFinished
		n.Turn = table.Choose{}
		return true
	}
	return false
}

// --------------------------
//         开局 / 新一轮
// --------------------------

func (e *Engine) startGame(n *table.State) bool {
	if n.Phase != table.PhaseInitial || n.Dealt() {
		return false
	}
	if !dealRound(n, n.Deck, false) {
		return false
	}
	n.Round = 1
	return true
}

func (e *Engine) startNewRound(n *table.State) bool {
	if n.Phase != table.PhaseRoundFinished {
		return false
	}
	if !dealRound(n, e.Dealer.NewDeck(), true) {
		return false
	}
	n.Round++
	return true
}

// dealRound 发牌并翻开一张明牌，重置回合内状态
func dealRound(n *table.State, deck []table.Card, preserveTotal bool) bool {
	players, rest, err := dealer.Deal(n.Players, deck, preserveTotal)
	if err != nil || len(rest) == 0 {
		return false
	}
	open := rest[0]
	open.Visible = true

	n.Players = players
	n.Deck = rest[1:]
	n.OpenCard = &open
	n.Phase = table.PhaseInitial
	n.Turn = table.Choose{}
	n.Current = 0
	n.EndedBy = ""
	n.LastTurn = false
	return true
}

// --------------------------
//          翻自己的牌
// --------------------------

func revealOwnCard(n *table.State, index int) bool {
	p := n.ActivePlayer()
	if p == nil || index < 0 || index >= len(p.Hand) || !p.Hand[index].FaceDown() {
		return false
	}

	switch n.Phase {
	case table.PhaseInitial:
		p.Hand[index].Visible = true
		p.Score = scoring.HandSum(p.Hand)
		if p.VisibleCount() < 2 {
			return true
		}
		for _, other := range n.Players {
			if other.VisibleCount() < 2 {
				advance(n)
				return true
			}
		}
		// 所有人都翻了两张：点数和最大者先手
		n.Current = scoring.Starter(n.Players)
		n.Phase = table.PhasePlaying
		n.Turn = table.Choose{}
		return true

	case table.PhasePlaying:
		switch n.Turn.(type) {
		case table.Choose, table.Reveal, nil:
		default:
			return false
		}
		p.Hand[index].Visible = true
		finishMove(n)
		return true
	}
	return false
}

// --------------------------
//          选牌 / 换牌
// --------------------------

func pickOpenCard(n *table.State) bool {
	if n.Phase != table.PhasePlaying || n.ActionPhase() != table.ActionChoose || n.OpenCard == nil {
		return false
	}
	n.Turn = table.Swap{}
	return true
}

func revealFromDeck(n *table.State, a RevealFromDeck) bool {
	if n.Phase != table.PhasePlaying || n.ActionPhase() != table.ActionChoose {
		return false
	}
	drawn := a.Drawn
	drawn.Visible = true
	drawn.Removed = false
	n.Deck = append([]table.Card(nil), a.Deck...)
	n.Turn = table.ChooseRevealed{Drawn: drawn}
	return true
}

// resolveRevealed 翻出的牌无论拿或弃都成为新的明牌；next 决定之后是换牌还是翻牌
func resolveRevealed(n *table.State, next table.Turn) bool {
	r, ok := n.Turn.(table.ChooseRevealed)
	if n.Phase != table.PhasePlaying || !ok {
		return false
	}
	drawn := r.Drawn
	n.OpenCard = &drawn
	n.Turn = next
	return true
}

func swapCard(n *table.State, index int) bool {
	if n.Phase != table.PhasePlaying || n.ActionPhase() != table.ActionSwap {
		return false
	}
	// 没有待换的牌：宿主时序错误，忽略
	if n.OpenCard == nil {
		return false
	}
	p := n.ActivePlayer()
	if p == nil || index < 0 || index >= len(p.Hand) || p.Hand[index].Removed {
		return false
	}

	out := p.Hand[index]
	in := *n.OpenCard
	in.Position = out.Position
	in.Visible = true
	in.Removed = false
	p.Hand[index] = in

	out.Visible = true
	n.OpenCard = &out

	finishMove(n)
	return true
}

// finishMove 消除同列三张；若有人完成手牌立即结算本轮，否则轮到下一位
func finishMove(n *table.State) {
	p := n.ActivePlayer()
	if matched := scoring.MatchedColumns(p.Hand); len(matched) > 0 {
		p.Hand = scoring.ApplyRemoval(p.Hand, matched)
	}
	// 本轮得分随翻开的牌实时更新，结算时再按全部翻开重算
	p.Score = scoring.HandSum(p.Hand)
	if scoring.RoundShouldEnd(n.Players) {
		closeRound(n)
		return
	}
	advance(n)
}

func closeRound(n *table.State) {
	finisher := n.ActivePlayer().ID
	done := make([]bool, len(n.Players))
	for i, p := range n.Players {
		done[i] = scoring.IsHandComplete(p.Hand)
	}
	n.Players = scoring.RevealAll(n.Players)
	for i := range n.Players {
		n.Players[i].Total += n.Players[i].Score
		n.Players[i].Finished = done[i]
	}
	n.EndedBy = finisher
	n.OpenCard = nil
	n.Turn = table.Choose{}
	if scoring.GameOver(n.Players) {
		n.Phase = table.PhaseGameFinished
	} else {
		n.Phase = table.PhaseRoundFinished
	}
}

func advance(n *table.State) {
	n.Current = (n.Current + 1) % len(n.Players)
	n.Turn = table.Choose{}
}

// --------------------------
//        最后一圈（旧）
// --------------------------

// endTurn 记录完成手牌的玩家并开启最后一圈，跳过已完成的玩家。
// 交换与翻牌在有人完成时已直接结算本轮，所以正常流程中它不会触发结算。
func endTurn(n *table.State) bool {
	if n.Phase != table.PhasePlaying {
		return false
	}
	p := n.ActivePlayer()
	p.Finished = scoring.IsHandComplete(p.Hand)

	if !n.LastTurn {
		for _, other := range n.Players {
			if other.Finished {
				n.EndedBy = other.ID
				n.LastTurn = true
				break
			}
		}
	}

	for i := 0; i < len(n.Players); i++ {
		advance(n)
		if !n.Players[n.Current].Finished {
			break
		}
	}
	return true
}

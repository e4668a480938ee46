package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"VibeJo/internal/game/table"
)

// ---------------------
//   ACTION DEFINITION
// ---------------------

type ActionKind string

const (
	KindStartGame      ActionKind = "start_game"
	KindRevealOwnCard  ActionKind = "reveal_own_card"
	KindPickOpenCard   ActionKind = "pick_open_card"
	KindRevealFromDeck ActionKind = "reveal_from_deck"
	KindPickRevealed   ActionKind = "pick_revealed_card"
	KindRejectRevealed ActionKind = "reject_revealed_card"
	KindSwapCard       ActionKind = "swap_card"
	KindEndTurn        ActionKind = "end_turn"
	KindStartNewRound  ActionKind = "start_new_round"
	KindEndGame        ActionKind = "end_game"
)

var ErrUnknownAction = errors.New("engine: unknown action")

// Action 一次离散输入
type Action interface {
	Kind() ActionKind
}

type StartGame struct{}

type RevealOwnCard struct{ Index int }

type PickOpenCard struct{}

// RevealFromDeck 由宿主构造：Drawn 为牌堆顶，Deck 为抽走后的剩余牌堆
type RevealFromDeck struct {
	Drawn table.Card
	Deck  []table.Card
}

type PickRevealedCard struct{}

type RejectRevealedCard struct{}

type SwapCard struct{ Index int }

// EndTurn 旧版「最后一圈」记账；主流程（交换/翻牌）不会经过它
type EndTurn struct{}

type StartNewRound struct{}

// EndGame 宿主提前结束整局
type EndGame struct{}

func (StartGame) Kind() ActionKind          { return KindStartGame }
func (RevealOwnCard) Kind() ActionKind      { return KindRevealOwnCard }
func (PickOpenCard) Kind() ActionKind       { return KindPickOpenCard }
func (RevealFromDeck) Kind() ActionKind     { return KindRevealFromDeck }
func (PickRevealedCard) Kind() ActionKind   { return KindPickRevealed }
func (RejectRevealedCard) Kind() ActionKind { return KindRejectRevealed }
func (SwapCard) Kind() ActionKind           { return KindSwapCard }
func (EndTurn) Kind() ActionKind            { return KindEndTurn }
func (StartNewRound) Kind() ActionKind      { return KindStartNewRound }
func (EndGame) Kind() ActionKind            { return KindEndGame }

// Draw 用牌堆顶构造 RevealFromDeck；牌堆为空时 ok=false
func Draw(s *table.State) (RevealFromDeck, bool) {
	if s == nil || len(s.Deck) == 0 {
		return RevealFromDeck{}, false
	}
	return RevealFromDeck{
		Drawn: s.Deck[0],
		Deck:  append([]table.Card(nil), s.Deck[1:]...),
	}, true
}

// Request 前端发来的动作
//
//	{"type": "swap_card", "index": 3}
type Request struct {
	Type  ActionKind `json:"type"`
	Index *int       `json:"index,omitempty"`
}

// Decode 把前端请求翻译成 Action。reveal_from_deck 需要当前状态来取牌堆顶。
func Decode(req Request, s *table.State) (Action, error) {
	index := func() (int, error) {
		if req.Index == nil {
			return 0, fmt.Errorf("%w: %s requires index", ErrUnknownAction, req.Type)
		}
		return *req.Index, nil
	}

	switch req.Type {
	case KindStartGame:
		return StartGame{}, nil
	case KindRevealOwnCard:
		i, err := index()
		if err != nil {
			return nil, err
		}
		return RevealOwnCard{Index: i}, nil
	case KindPickOpenCard:
		return PickOpenCard{}, nil
	case KindRevealFromDeck:
		a, ok := Draw(s)
		if !ok {
			return nil, fmt.Errorf("%w: deck is empty", ErrUnknownAction)
		}
		return a, nil
	case KindPickRevealed:
		return PickRevealedCard{}, nil
	case KindRejectRevealed:
		return RejectRevealedCard{}, nil
	case KindSwapCard:
		i, err := index()
		if err != nil {
			return nil, err
		}
		return SwapCard{Index: i}, nil
	case KindEndTurn:
		return EndTurn{}, nil
	case KindStartNewRound:
		return StartNewRound{}, nil
	case KindEndGame:
		return EndGame{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, req.Type)
}

// ParseAction 解析任意 JSON 载荷（websocket 里是 map[string]any）
func ParseAction(data any, s *table.State) (Action, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownAction, err)
	}
	return Decode(req, s)
}

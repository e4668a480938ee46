// Package agent plays on behalf of non-human participants by picking a
// uniformly random legal action for the current phase.
package agent

import (
	"math/rand"
	"sync"
	"time"

	"VibeJo/internal/game/engine"
	"VibeJo/internal/game/table"
)

// HumanID 真人玩家固定为 "1"
const HumanID = "1"

const (
	DefaultMinDelay = 100 * time.Millisecond
	DefaultMaxDelay = 300 * time.Millisecond
)

// Agent 随机机器人。rnd 非并发安全，用 mu 保护
type Agent struct {
	HumanID  string
	MinDelay time.Duration
	MaxDelay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func New(seed int64) *Agent {
	return &Agent{
		HumanID:  HumanID,
		MinDelay: DefaultMinDelay,
		MaxDelay: DefaultMaxDelay,
		rnd:      rand.New(rand.NewSource(seed)),
	}
}

// IsBot 当前行动者是否由机器人控制
func (a *Agent) IsBot(s *table.State) bool {
	p := s.ActivePlayer()
	return p != nil && p.ID != a.HumanID
}

// Decide 为当前行动的机器人选择一个动作；真人回合或无合法动作时返回 nil
func (a *Agent) Decide(s *table.State) engine.Action {
	if !a.IsBot(s) {
		return nil
	}
	p := s.ActivePlayer()

	switch s.Phase {
	case table.PhaseInitial:
		if !s.Dealt() || p.VisibleCount() >= 2 {
			return nil
		}
		return a.revealOne(p.Hand)

	case table.PhasePlaying:
		switch s.ActionPhase() {
		case table.ActionChoose:
			return a.choose(s)
		case table.ActionChooseRevealed:
			if a.intn(2) == 0 {
				return engine.PickRevealedCard{}
			}
			return engine.RejectRevealedCard{}
		case table.ActionSwap:
			var idx []int
			for i, c := range p.Hand {
				if !c.Removed {
					idx = append(idx, i)
				}
			}
			if len(idx) == 0 {
				return nil
			}
			return engine.SwapCard{Index: idx[a.intn(len(idx))]}
		case table.ActionReveal:
			return a.revealOne(p.Hand)
		}
	}
	return nil
}

func (a *Agent) choose(s *table.State) engine.Action {
	var options []engine.Action
	if draw, ok := engine.Draw(s); ok {
		options = append(options, draw)
	}
	if s.OpenCard != nil {
		options = append(options, engine.PickOpenCard{})
	}
	if len(options) == 0 {
		return nil
	}
	return options[a.intn(len(options))]
}

func (a *Agent) revealOne(hand table.Hand) engine.Action {
	var idx []int
	for i, c := range hand {
		if c.FaceDown() {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil
	}
	return engine.RevealOwnCard{Index: idx[a.intn(len(idx))]}
}

// Delay 节奏延迟，[MinDelay, MaxDelay] 内均匀分布，仅供宿主调度参考
func (a *Agent) Delay() time.Duration {
	span := a.MaxDelay - a.MinDelay
	if span <= 0 {
		return a.MinDelay
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.MinDelay + time.Duration(a.rnd.Int63n(int64(span)+1))
}

func (a *Agent) intn(n int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rnd.Intn(n)
}
